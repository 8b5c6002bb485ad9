// Package display provides terminal helpers for user-facing warnings and
// multi-file progress.
//
// Every function writes to an io.Writer so commands can route output through
// cobra's writers and tests can capture it:
//
//	display.WarnMissingBridges(result.MissingBridges()).Display(cmd.OutOrStdout())
//
//	progress := display.NewProgressIndicator(cmd.OutOrStdout(), len(files), true)
//	progress.Start()
//	for _, f := range files {
//	    progress.Step(f)
//	    progress.Record(validate(f).GateStatus)
//	}
//	progress.Complete()
package display
