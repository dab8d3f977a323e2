// Command httpserver serves a directory of static files over the HTTP/1.1
// GET subset.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aunnnn/simple-http-server/pkg/httpserver"
)

func main() {
	var (
		addr        = flag.String("addr", ":8080", "listen address")
		docroot     = flag.String("docroot", "", "directory to serve files from")
		index       = flag.String("index", "", "index page relative to docroot (default index.html)")
		page400     = flag.String("page-400", "", "custom 400 page relative to docroot")
		page404     = flag.String("page-404", "", "custom 404 page relative to docroot")
		maxActive   = flag.Int("max-active", 0, "cap on concurrent sessions (0 = unlimited)")
		recvTimeout = flag.Duration("recv-timeout", 3*time.Second, "per-read timeout while waiting for a request")
		daemon      = flag.Bool("daemon", false, "do not wait for in-flight sessions on shutdown")
		configFile  = flag.String("config", "", "JSON config file (flags override it)")
		metricsAddr = flag.String("metrics-addr", "", "expose Prometheus metrics on this address (optional)")
	)
	flag.Parse()

	config := httpserver.DefaultConfig()
	if *configFile != "" {
		loaded, err := httpserver.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		config = loaded
	}

	if *addr != ":8080" || config.Addr == "" {
		config.Addr = *addr
	}
	if *docroot != "" {
		config.Docroot = *docroot
	}
	if config.Pages == nil {
		config.Pages = map[string]string{}
	}
	if *index != "" {
		config.Pages["index"] = *index
	}
	if *page400 != "" {
		config.Pages["400"] = *page400
	}
	if *page404 != "" {
		config.Pages["404"] = *page404
	}
	if *maxActive > 0 {
		config.MaxActive = *maxActive
	}
	if *recvTimeout > 0 {
		config.RecvTimeout = *recvTimeout
	}
	if *daemon {
		config.Daemon = true
	}
	config.Logger = log.Default()

	if config.Docroot == "" {
		log.Fatal("a docroot is required (-docroot or config file)")
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Printf("metrics on %s/metrics", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Printf("metrics listener: %v", err)
			}
		}()
	}

	server := httpserver.New(config)

	done := make(chan error, 1)
	go func() {
		done <- server.ListenAndServe()
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-done:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	case s := <-sig:
		log.Printf("received %v, closing server...", s)
		if err := server.Close(); err != nil {
			log.Printf("close: %v", err)
		}
		<-done
		log.Println("server closed")
	}
}
