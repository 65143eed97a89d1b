// Package basecmd is a small framework for programs that expose named subcommands. Each command
// is a [Command] value with its own arguments, help text and execution function; the framework
// builds its parser, handles the built-in options, runs it and maps the outcome to an exit code.
//
// A program with a single command calls [Main]. A program with several commands registers
// factories in a [Registry], or lets a [Runner] discover them from a directory of Go files using a
// catalog generated by basecmd-gen. Commands can also be invoked from Go code with [Call], which
// skips argument parsing and returns errors instead of exit codes.
//
// Every command accepts these options:
//
//	--version        print the command's version and exit
//	-v, --verbosity  0=minimal, 1=normal, 2=verbose, 3=very verbose
//	--traceback      print the full trace of a CommandError
//	--no-color       don't colorize output
//	--force-color    force colorized output
//
// Exit codes: 0 on success (including -h/--help and --version), 2 for usage errors, the error's
// return code for a [CommandError] (1 by default) and 1 for any other error.
package basecmd
