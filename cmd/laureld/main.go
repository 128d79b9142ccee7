// Command laureld starts the directory server: it loads and builds the
// configuration named by its one positional argument or by
// LAURELIN_SERVER_CONFIG, wires the resulting schema registry, DIT router,
// and auth stack into a Handler, and serves every configured listener
// until interrupted (§6 "Process entry").
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"laureld"
	"laureld/internal/config"
)

func main() {
	configPath := os.Getenv("LAURELIN_SERVER_CONFIG")
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	if configPath == "" {
		log.Println("usage: laureld <config-path>  (or set LAURELIN_SERVER_CONFIG)")
		os.Exit(1)
	}

	doc, err := config.Load(configPath)
	if err != nil {
		log.Println("Error loading configuration:", err)
		os.Exit(1)
	}
	built, err := config.Build(doc)
	if err != nil {
		log.Println("Error building server state:", err)
		os.Exit(1)
	}

	globals := laureld.NewGlobals(built, doc.VendorName)
	handler := laureld.NewLDAPHandler(globals)

	set, err := laureld.NewListenerSet(handler, doc.Listeners)
	if err != nil {
		log.Println("Error starting listeners:", err)
		os.Exit(1)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	<-signals
	log.Println("Shutting down.")
	set.Shutdown()
}
