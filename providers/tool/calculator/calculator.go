package calculator

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/leofalp/reactloop/providers/tool"
)

// ErrDivisionByZero is returned by Calc when dividing by zero.
var ErrDivisionByZero = errors.New("division by zero")

// NewCalculatorTool returns the "calculate" tool backed by [Calc].
func NewCalculatorTool() *tool.Spec {
	return tool.NewTool("calculate",
		func(ctx context.Context, in Input) (string, error) {
			out, err := Calc(ctx, in)
			if err != nil {
				return "", err
			}
			return strconv.FormatFloat(out.Result, 'g', -1, 64), nil
		},
		tool.WithDescription("Perform a basic arithmetic operation on two numbers"),
	)
}

// Calc applies in.Op to in.A and in.B. Supported operations are "add"/"+",
// "sub"/"-", "mul"/"*" and "div"/"/".
//
// Example:
//
//	result, err := Calc(ctx, calculator.Input{A: 10, B: 4, Op: "div"})
//	fmt.Println(result.Result) // 2.5
func Calc(ctx context.Context, in Input) (Output, error) {
	var result float64
	switch in.Op {
	case "add", "+":
		result = in.A + in.B
	case "sub", "-":
		result = in.A - in.B
	case "mul", "*":
		result = in.A * in.B
	case "div", "/":
		if in.B == 0 {
			return Output{}, ErrDivisionByZero
		}
		result = in.A / in.B
	default:
		return Output{}, fmt.Errorf("unsupported operation %q", in.Op)
	}
	return Output{Result: result}, nil
}

// Input holds the two operands and the operation to apply.
type Input struct {
	A  float64 `json:"a" jsonschema:"description=First operand"`
	B  float64 `json:"b" jsonschema:"description=Second operand"`
	Op string  `json:"op" jsonschema:"description=Operation to apply,enum=add,enum=sub,enum=mul,enum=div"`
}

// Output carries the result of [Calc].
type Output struct {
	Result float64 `json:"result"`
}
