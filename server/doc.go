// Package server implements a readiness-driven connection dispatcher.
//
// One goroutine runs Server.Run: it waits on the reactor, accepts new
// connections and, for every readable connection, removes it from the
// reactor and starts a worker goroutine. The worker reads one message,
// writes the Handler's reply and registers the connection again.
//
//	srv, err := server.New(&server.Config{Endpoint: "ipc://@echo"})
//	if err != nil {
//		return err
//	}
//	go srv.Run(ctx)
//	defer srv.Shutdown()
package server
