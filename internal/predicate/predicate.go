// Package predicate evaluates test(1) expressions: file type checks,
// string comparisons, and integer comparisons.
package predicate

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// Eval evaluates a test expression given as argv (without the leading
// command name). An empty expression is false, a single operand is true
// when non-empty, per POSIX.
func Eval(args []string) (bool, error) {
	if len(args) > 0 && args[0] == "!" {
		v, err := Eval(args[1:])
		return !v, err
	}

	switch len(args) {
	case 0:
		return false, nil
	case 1:
		return args[0] != "", nil
	case 2:
		return evalUnary(args[0], args[1])
	case 3:
		return evalBinary(args[0], args[1], args[2])
	default:
		return false, fmt.Errorf("too many arguments")
	}
}

func evalUnary(op, operand string) (bool, error) {
	switch op {
	case "-z":
		return operand == "", nil
	case "-n":
		return operand != "", nil
	}

	info, err := os.Lstat(operand)
	switch op {
	case "-e":
		return err == nil, nil
	case "-f":
		return err == nil && info.Mode().IsRegular(), nil
	case "-d":
		return err == nil && info.IsDir(), nil
	case "-L", "-h":
		return err == nil && info.Mode()&fs.ModeSymlink != 0, nil
	case "-p":
		return err == nil && info.Mode()&fs.ModeNamedPipe != 0, nil
	case "-S":
		return err == nil && info.Mode()&fs.ModeSocket != 0, nil
	case "-b":
		return err == nil && info.Mode()&fs.ModeDevice != 0 && info.Mode()&fs.ModeCharDevice == 0, nil
	case "-c":
		return err == nil && info.Mode()&fs.ModeCharDevice != 0, nil
	case "-s":
		return err == nil && info.Size() > 0, nil
	case "-r":
		return unix.Access(operand, unix.R_OK) == nil, nil
	case "-w":
		return unix.Access(operand, unix.W_OK) == nil, nil
	case "-x":
		return unix.Access(operand, unix.X_OK) == nil, nil
	}
	return false, fmt.Errorf("unknown unary operator %q", op)
}

func evalBinary(lhs, op, rhs string) (bool, error) {
	switch op {
	case "=", "==":
		return lhs == rhs, nil
	case "!=":
		return lhs != rhs, nil
	}

	l, err := strconv.ParseInt(lhs, 10, 64)
	if err != nil {
		return false, fmt.Errorf("integer expression expected: %q", lhs)
	}
	r, err := strconv.ParseInt(rhs, 10, 64)
	if err != nil {
		return false, fmt.Errorf("integer expression expected: %q", rhs)
	}

	switch op {
	case "-eq":
		return l == r, nil
	case "-ne":
		return l != r, nil
	case "-lt":
		return l < r, nil
	case "-le":
		return l <= r, nil
	case "-gt":
		return l > r, nil
	case "-ge":
		return l >= r, nil
	}
	return false, fmt.Errorf("unknown binary operator %q", op)
}
