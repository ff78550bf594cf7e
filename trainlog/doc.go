// Package trainlog formats and logs the metrics of machine learning
// training runs.
//
// A [Prettier] turns raw metrics into fixed-width display strings:
//
//	p := &trainlog.Prettier{Ref: map[string]int{"epoch": 20}}
//	m, err := p.Prettify(pretty.Dict("epoch", 3, "loss", 0.12345, "acc", 0.9))
//	// {epoch:  3/20, loss:  0.1235, acc:  90.00}
//
// A [Step] sends the metrics of one step to the console, a log file, a
// progress bar and a scalar writer. When a single [log.Logger] writes both
// the console and the file, [log.Block] markers keep each message on the
// intended sink.
package trainlog
