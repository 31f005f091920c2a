// Package run executes the full program lifecycle based on modules.
package run

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/safing/poolrand/log"
	"github.com/safing/poolrand/modules"
)

const (
	forceExitSignals = 5
	shutdownTimeout  = 1 * time.Minute
)

var printStackOnExit bool

func init() {
	flag.BoolVar(&printStackOnExit, "print-stack-on-exit", false, "prints the stack before of shutting down")
}

// Run executes a full program lifecycle (including signal handling) based on
// modules. Just empty-import required packages and do os.Exit(run.Run()).
func Run() int {
	err := modules.Start()
	if err != nil {
		if errors.Is(err, modules.ErrCleanExit) {
			return 0
		}

		if printStackOnExit {
			printStackTo(os.Stdout)
		}

		modules.SetExitStatusCode(1)
		_ = modules.Shutdown()
		return modules.GetExitStatusCode()
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(
		signalCh,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	select {
	case <-signalCh:
		fmt.Println(" <INTERRUPT>")
		log.Warning("main: program was interrupted, shutting down.")

		go forceExitOnRepeat(signalCh)
		go func() {
			time.Sleep(shutdownTimeout)
			fmt.Fprintln(os.Stderr, "===== TAKING TOO LONG FOR SHUTDOWN =====")
			printStackTo(os.Stderr)
			os.Exit(1)
		}()

		if printStackOnExit {
			printStackTo(os.Stdout)
		}
		_ = modules.Shutdown()

	case <-modules.ShuttingDown():
	}

	return modules.GetExitStatusCode()
}

// forceExitOnRepeat exits the program if it receives more signals during shutdown.
func forceExitOnRepeat(signalCh <-chan os.Signal) {
	for left := forceExitSignals - 1; ; left-- {
		<-signalCh
		if left > 0 {
			fmt.Printf(" <INTERRUPT> again, but already shutting down. %d more to force.\n", left)
			continue
		}
		fmt.Fprintln(os.Stderr, "===== FORCED EXIT =====")
		printStackTo(os.Stderr)
		os.Exit(1)
	}
}

func printStackTo(writer io.Writer) {
	fmt.Fprintln(writer, "=== PRINTING TRACES ===")
	fmt.Fprintln(writer, "=== GOROUTINES ===")
	_ = pprof.Lookup("goroutine").WriteTo(writer, 1)
	fmt.Fprintln(writer, "=== MUTEXES ===")
	_ = pprof.Lookup("mutex").WriteTo(writer, 1)
	fmt.Fprintln(writer, "=== END TRACES ===")
}
