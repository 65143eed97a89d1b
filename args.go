package basecmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/mfridman/xflag"
)

// ValueType is the type an argument's text is converted to.
type ValueType int

const (
	TypeString ValueType = iota
	TypeBool
	TypeInt
	TypeFloat
)

func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Nargs is the number of command-line values a positional argument consumes.
type Nargs int

const (
	// NargsOne consumes exactly one value. It is the default.
	NargsOne Nargs = iota
	// NargsOptional consumes one value if available.
	NargsOptional
	// NargsZeroOrMore consumes all remaining values. The option value is a slice.
	NargsZeroOrMore
	// NargsOneOrMore consumes all remaining values and requires at least one. The option value is
	// a slice.
	NargsOneOrMore
)

func (n Nargs) repeated() bool { return n == NargsZeroOrMore || n == NargsOneOrMore }

func (n Nargs) min() int {
	if n == NargsOne || n == NargsOneOrMore {
		return 1
	}
	return 0
}

// ArgSpec declares one argument. Options are keyed by Name in [Options].
type ArgSpec struct {
	// Name is the option key. For flags it is also the long flag name, leading dashes are ignored.
	Name string
	// Short is an optional single letter alias for a flag, e.g. "v".
	Short string
	// Positional marks the argument as positional instead of a flag.
	Positional bool
	// Nargs applies to positional arguments only.
	Nargs Nargs
	Type  ValueType
	// Default is used when the argument is absent. It must match Type: string, bool, int or
	// float64. For repeated positionals it must be a slice of that type.
	Default any
	// Choices restricts the accepted values, compared on their text form.
	Choices []string
	// Metavar is the display name in help text. Defaults to Name.
	Metavar string
	Help    string
	// Hidden excludes the argument from help text. It is still accepted.
	Hidden bool
}

func (s ArgSpec) displayName() string {
	if s.Metavar != "" {
		return s.Metavar
	}
	return s.Name
}

// ArgSet collects the arguments of one command. Commands add arguments in [Command.Args]; the
// built-in arguments are already present. Mistakes such as duplicate names are recorded and
// reported when the command is run.
type ArgSet struct {
	fset        *flag.FlagSet
	flags       []*argument
	positionals []*argument
	// names holds every option key and flag token in use.
	names map[string]bool

	missingArgsMessage string
	suppressed         map[string]bool
	addingBase         bool
	err                error
}

type argument struct {
	ArgSpec
	value *value
	base  bool
}

func newArgSet(md Metadata) *ArgSet {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	fset.Usage = func() {}
	a := &ArgSet{
		fset:               fset,
		names:              map[string]bool{"h": true, "help": true},
		missingArgsMessage: md.MissingArgsMessage,
		suppressed:         make(map[string]bool),
	}
	for _, name := range md.SuppressedBaseArguments {
		a.suppressed[strings.TrimLeft(name, "-")] = true
	}
	return a
}

// Add declares an argument.
func (a *ArgSet) Add(spec ArgSpec) {
	if err := a.add(spec); err != nil && a.err == nil {
		a.err = err
	}
}

// String declares a string flag.
func (a *ArgSet) String(name, value, usage string) {
	a.Add(ArgSpec{Name: name, Type: TypeString, Default: value, Help: usage})
}

// Bool declares a boolean flag that defaults to false.
func (a *ArgSet) Bool(name, usage string) {
	a.Add(ArgSpec{Name: name, Type: TypeBool, Help: usage})
}

// Int declares an integer flag.
func (a *ArgSet) Int(name string, value int, usage string) {
	a.Add(ArgSpec{Name: name, Type: TypeInt, Default: value, Help: usage})
}

// Positional declares a required positional string argument.
func (a *ArgSet) Positional(name, usage string) {
	a.Add(ArgSpec{Name: name, Positional: true, Help: usage})
}

func (a *ArgSet) add(spec ArgSpec) error {
	spec.Name = strings.TrimLeft(spec.Name, "-")
	spec.Short = strings.TrimLeft(spec.Short, "-")
	if spec.Name == "" {
		return configErrorf("argument has no name")
	}
	if strings.ContainsAny(spec.Name, " =") {
		return configErrorf("argument name %q must not contain spaces or '='", spec.Name)
	}
	if spec.Positional {
		if spec.Short != "" {
			return configErrorf("positional argument %q cannot have a short name", spec.Name)
		}
		if spec.Type == TypeBool {
			return configErrorf("positional argument %q cannot be a bool", spec.Name)
		}
	} else if spec.Nargs != NargsOne {
		return configErrorf("flag %q cannot set nargs", spec.Name)
	}
	for _, n := range []string{spec.Name, spec.Short} {
		if n != "" && a.names[n] {
			return configErrorf("argument %q conflicts with an existing argument", n)
		}
	}
	val, err := newValue(spec)
	if err != nil {
		return err
	}

	arg := &argument{ArgSpec: spec, value: val, base: a.addingBase}
	if arg.base && (a.suppressed[spec.Name] || (spec.Short != "" && a.suppressed[spec.Short])) {
		arg.Hidden = true
	}
	a.names[spec.Name] = true
	if spec.Positional {
		a.positionals = append(a.positionals, arg)
		return nil
	}
	a.fset.Var(val, spec.Name, spec.Help)
	if spec.Short != "" {
		a.names[spec.Short] = true
		a.fset.Var(val, spec.Short, spec.Help)
	}
	a.flags = append(a.flags, arg)
	return nil
}

// lookup returns the argument stored under the option key name.
func (a *ArgSet) lookup(name string) *argument {
	for _, arg := range a.flags {
		if arg.Name == name {
			return arg
		}
	}
	for _, arg := range a.positionals {
		if arg.Name == name {
			return arg
		}
	}
	return nil
}

// defaults returns the declared default of every argument.
func (a *ArgSet) defaults() Options {
	opts := make(Options, len(a.flags)+len(a.positionals))
	for _, arg := range a.flags {
		opts[arg.Name] = arg.value.v
	}
	for _, arg := range a.positionals {
		opts[arg.Name] = arg.value.v
	}
	return opts
}

var (
	errHelp    = flag.ErrHelp
	errVersion = errors.New("version requested")
)

// parse converts args into options. It returns errHelp or errVersion when those were requested, a
// *UsageError for malformed input, or the parsed options.
func (a *ArgSet) parse(args []string) (Options, error) {
	flagArgs, rest := args, []string(nil)
	if i := slices.Index(args, "--"); i >= 0 {
		flagArgs, rest = args[:i], args[i+1:]
	}
	if err := a.scanRequests(flagArgs); err != nil {
		return nil, err
	}
	if err := xflag.ParseToEnd(a.fset, flagArgs); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, errHelp
		}
		return nil, &UsageError{Code: ErrInvalidArgument, Err: err}
	}
	if f := a.fset.Lookup("version"); f != nil {
		if v, ok := f.Value.(*value); ok && v.v == true {
			return nil, errVersion
		}
	}

	opts := make(Options, len(a.flags)+len(a.positionals))
	for _, arg := range a.flags {
		opts[arg.Name] = arg.value.v
	}
	values := append(slices.Clone(a.fset.Args()), rest...)
	if err := a.assignPositionals(values, opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// scanRequests looks for help and version requests before anything is parsed, so that missing
// arguments do not hide them. A token following a flag that takes a value is that flag's value,
// and an option token in that place is a missing value.
func (a *ArgSet) scanRequests(args []string) error {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if req := requestFor(arg); req != nil {
			return req
		}
		if !a.takesValue(arg) {
			continue
		}
		if i+1 < len(args) && a.isOption(args[i+1]) {
			return newUsageError(ErrInvalidArgument, "argument %s: expected one argument", arg)
		}
		i++
	}
	return nil
}

func requestFor(arg string) error {
	switch arg {
	case "-h", "--h", "-help", "--help":
		return errHelp
	case "-version", "--version":
		return errVersion
	}
	return nil
}

func flagName(arg string) (string, bool) {
	if len(arg) < 2 || arg[0] != '-' {
		return "", false
	}
	name := strings.TrimPrefix(arg[1:], "-")
	if i := strings.IndexByte(name, '='); i >= 0 {
		name = name[:i]
	}
	return name, name != ""
}

// takesValue reports whether arg is a known non-boolean flag whose value is the next token.
func (a *ArgSet) takesValue(arg string) bool {
	name, ok := flagName(arg)
	if !ok || strings.Contains(arg, "=") {
		return false
	}
	f := a.fset.Lookup(name)
	if f == nil {
		return false
	}
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return false
	}
	return true
}

func (a *ArgSet) isOption(arg string) bool {
	if requestFor(arg) != nil {
		return true
	}
	name, ok := flagName(arg)
	return ok && a.fset.Lookup(name) != nil
}

func (a *ArgSet) assignPositionals(values []string, opts Options) error {
	// minAfter[i] is the number of values required by positionals after index i.
	minAfter := make([]int, len(a.positionals)+1)
	for i := len(a.positionals) - 1; i >= 0; i-- {
		minAfter[i] = minAfter[i+1] + a.positionals[i].Nargs.min()
	}

	var missing []string
	idx := 0
	for i, arg := range a.positionals {
		remaining := len(values) - idx
		spare := remaining - minAfter[i+1]
		var take int
		switch arg.Nargs {
		case NargsOne:
			take = min(remaining, 1)
		case NargsOptional:
			take = min(max(spare, 0), 1)
		case NargsZeroOrMore, NargsOneOrMore:
			take = max(spare, 0)
			if arg.Nargs == NargsOneOrMore && take == 0 && remaining > 0 {
				take = 1
			}
		}
		if take < arg.Nargs.min() {
			missing = append(missing, arg.displayName())
			opts[arg.Name] = arg.value.v
			continue
		}
		v, err := arg.convertAll(values[idx : idx+take])
		if err != nil {
			return err
		}
		opts[arg.Name] = v
		idx += take
	}
	if len(missing) > 0 {
		if a.missingArgsMessage != "" {
			return newUsageError(ErrMissingArguments, "%s", a.missingArgsMessage)
		}
		return newUsageError(ErrMissingArguments, "the following arguments are required: %s",
			strings.Join(missing, ", "))
	}
	if idx < len(values) {
		return newUsageError(ErrUnrecognizedArguments, "unrecognized arguments: %s",
			strings.Join(values[idx:], " "))
	}
	return nil
}

// convertAll converts the values taken by a positional argument. Single value positionals that
// took nothing keep their default.
func (arg *argument) convertAll(values []string) (any, error) {
	if !arg.Nargs.repeated() {
		if len(values) == 0 {
			return arg.value.v, nil
		}
		v, err := arg.value.convert(values[0])
		if err != nil {
			return nil, newUsageError(ErrInvalidArgument, "argument %s: %v", arg.displayName(), err)
		}
		return v, nil
	}
	out := zeroSlice(arg.Type)
	for _, s := range values {
		v, err := arg.value.convert(s)
		if err != nil {
			return nil, newUsageError(ErrInvalidArgument, "argument %s: %v", arg.displayName(), err)
		}
		out = appendValue(out, v)
	}
	return out, nil
}

// value implements flag.Getter for every [ValueType].
type value struct {
	typ     ValueType
	choices []string
	v       any
}

var _ flag.Getter = (*value)(nil)

func newValue(spec ArgSpec) (*value, error) {
	val := &value{typ: spec.Type, choices: spec.Choices}
	if spec.Nargs.repeated() {
		if spec.Default == nil {
			val.v = zeroSlice(spec.Type)
			return val, nil
		}
		if reflect.TypeOf(spec.Default) != reflect.TypeOf(zeroSlice(spec.Type)) {
			return nil, configErrorf("argument %q: default %T does not match type []%s", spec.Name, spec.Default, spec.Type)
		}
		val.v = spec.Default
		return val, nil
	}
	if spec.Default == nil {
		val.v = zeroValue(spec.Type)
		return val, nil
	}
	if reflect.TypeOf(spec.Default) != reflect.TypeOf(zeroValue(spec.Type)) {
		return nil, configErrorf("argument %q: default %T does not match type %s", spec.Name, spec.Default, spec.Type)
	}
	if len(spec.Choices) > 0 && !slices.Contains(spec.Choices, fmt.Sprint(spec.Default)) {
		return nil, configErrorf("argument %q: default %v is not one of the choices", spec.Name, spec.Default)
	}
	val.v = spec.Default
	return val, nil
}

func (v *value) convert(s string) (any, error) {
	var (
		out any
		err error
	)
	switch v.typ {
	case TypeString:
		out = s
	case TypeBool:
		out, err = strconv.ParseBool(s)
	case TypeInt:
		out, err = strconv.Atoi(s)
	case TypeFloat:
		out, err = strconv.ParseFloat(s, 64)
	default:
		return nil, fmt.Errorf("unsupported type %s", v.typ)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %q", v.typ, s)
	}
	if len(v.choices) > 0 && !slices.Contains(v.choices, fmt.Sprint(out)) {
		return nil, fmt.Errorf("invalid choice: %q (choose from %s)", s, strings.Join(v.choices, ", "))
	}
	return out, nil
}

func (v *value) Set(s string) error {
	out, err := v.convert(s)
	if err != nil {
		return err
	}
	v.v = out
	return nil
}

func (v *value) String() string {
	if v == nil || v.v == nil {
		return ""
	}
	return fmt.Sprint(v.v)
}

func (v *value) Get() any { return v.v }

func (v *value) IsBoolFlag() bool { return v.typ == TypeBool }

func zeroValue(t ValueType) any {
	switch t {
	case TypeBool:
		return false
	case TypeInt:
		return 0
	case TypeFloat:
		return float64(0)
	default:
		return ""
	}
}

func zeroSlice(t ValueType) any {
	switch t {
	case TypeBool:
		return []bool{}
	case TypeInt:
		return []int{}
	case TypeFloat:
		return []float64{}
	default:
		return []string{}
	}
}

func appendValue(s, v any) any {
	switch s := s.(type) {
	case []bool:
		return append(s, v.(bool))
	case []int:
		return append(s, v.(int))
	case []float64:
		return append(s, v.(float64))
	case []string:
		return append(s, v.(string))
	}
	return s
}
