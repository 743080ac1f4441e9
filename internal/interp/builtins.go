package interp

import "fmt"

// builtinFunc is a host-implemented function the interpreter resolves
// before ever consulting the program's own function table.
type builtinFunc func(it *Interp, args []Value) (Value, error)

var builtins = map[string]builtinFunc{
	"print":   builtinPrint,
	"println": builtinPrintln,
}

func builtinPrint(it *Interp, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("interp: print expects 1 argument, got %d", len(args))
	}
	fmt.Fprint(it.out, args[0].String())
	return &UnitValue{}, nil
}

func builtinPrintln(it *Interp, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("interp: println expects 1 argument, got %d", len(args))
	}
	fmt.Fprintln(it.out, args[0].String())
	return &UnitValue{}, nil
}
