package log

import (
	"fmt"
	"io"
	"os"
	"time"
)

var logOutput io.Writer = os.Stdout

func writeLine(line *logLine) {
	fmt.Fprintln(logOutput, formatLine(line, true))
}

func writer() {
	defer shutdownWaitGroup.Done()

	for {
		// wait until logs need to be processed
		select {
		case <-logsWaiting:
			logsWaitingFlag.UnSet()
		case <-forceEmptyingOfBuffer:
		case <-shutdownSignal:
			finalize()
			return
		}

		// write all the logs!
	writeLoop:
		for {
			select {
			case line := <-logBuffer:
				writeLine(line)
			default:
				break writeLoop
			}
		}
	}
}

func finalize() {
	for {
		select {
		case line := <-logBuffer:
			writeLine(line)
		default:
			writeLine(&logLine{
				msg:       "===== LOGGING STOPPED =====",
				level:     WarningLevel,
				timestamp: time.Now(),
			})
			return
		}
	}
}
