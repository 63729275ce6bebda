/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package daemon

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
	"github.com/eclesh/welford"
)

// MathHelp is a help message used by flags in main
const MathHelp = `When composing the -error formula, here is what you can do:
supported operations:
  evaluation is done with govaluate, please check https://github.com/Knetic/govaluate/blob/master/MANUAL.md
supported variables:
  offset (list of last offsets from the reference, in ms)
  rtt (list of last round trip times to the reference, in ms)
  error (list of last fractional frequency errors estimated by the servo)
supported functions:
  abs(value) - absolute value of single float64, for example abs(-1) = 1
  mean(values, number) - mean of list of 'number' values, for example mean(error, 10) will take 10 elements from array 'error' and return mean for those values
  variance(values, number) - variance of list of 'number' values
  stddev(values, number) - standard deviation of list of 'number' values`

const (
	// MathDefaultHistory is a default number of samples to keep
	MathDefaultHistory = 32
	// MathDefaultError is a default formula to calculate the error we correct for
	MathDefaultError = "mean(error, 4)"
)

// Math stores our math expression for the clock error in two forms: string and parsed
type Math struct {
	Error     string // fractional frequency error the clock is corrected by
	errorExpr *govaluate.EvaluableExpression
}

// Prepare will prepare all math expressions
func (m *Math) Prepare() error {
	var err error
	m.errorExpr, err = prepareExpression(m.Error)
	if err != nil {
		return fmt.Errorf("evaluating Error: %w", err)
	}
	return nil
}

func mean(input []float64) float64 {
	s := welford.New()
	for _, v := range input {
		s.Add(v)
	}
	return s.Mean()
}

func variance(input []float64) float64 {
	s := welford.New()
	for _, v := range input {
		s.Add(v)
	}
	return s.Variance()
}

func stddev(input []float64) float64 {
	s := welford.New()
	for _, v := range input {
		s.Add(v)
	}
	return s.Stddev()
}

var supportedVariables = []string{
	"offset",
	"rtt",
	"error",
}

func isSupportedVar(varName string) bool {
	for _, v := range supportedVariables {
		if v == varName {
			return true
		}
	}
	return false
}

func listFunction(name string, f func([]float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%s: wrong number of arguments: want 2, got %d", name, len(args))
		}
		vals, ok := args[0].([]float64)
		if !ok {
			return nil, fmt.Errorf("%s: first argument must be a list", name)
		}
		n, ok := args[1].(float64)
		if !ok {
			return nil, fmt.Errorf("%s: second argument must be a number", name)
		}
		nSamples := int(n)
		if len(vals) < nSamples {
			return f(vals), nil
		}
		return f(vals[:nSamples]), nil
	}
}

// all the functions we support in expressions
var functions = map[string]govaluate.ExpressionFunction{
	"abs": func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("abs: wrong number of arguments: want 1, got %d", len(args))
		}
		val, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("abs: argument must be a number")
		}
		return math.Abs(val), nil
	},
	"mean":     listFunction("mean", mean),
	"variance": listFunction("variance", variance),
	"stddev":   listFunction("stddev", stddev),
}

func prepareExpression(exprStr string) (*govaluate.EvaluableExpression, error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(exprStr, functions)
	if err != nil {
		return nil, err
	}
	for _, v := range expr.Vars() {
		if !isSupportedVar(v) {
			return nil, fmt.Errorf("unsupported variable %q", v)
		}
	}
	return expr, nil
}

// prepareMathParameters turns data points, newest first, into expression variables
func prepareMathParameters(lastN []*DataPoint) map[string]interface{} {
	size := len(lastN)
	offsets := make([]float64, size)
	rtts := make([]float64, size)
	errs := make([]float64, size)
	for i, d := range lastN {
		offsets[i] = d.OffsetMS
		rtts[i] = d.RTTMS
		errs[i] = d.Error
	}
	return map[string]interface{}{
		"offset": offsets,
		"rtt":    rtts,
		"error":  errs,
	}
}

// EvalError evaluates the error expression over data points, newest first
func (m *Math) EvalError(lastN []*DataPoint) (float64, error) {
	if len(lastN) == 0 {
		return 0, errNotEnoughData
	}
	res, err := m.errorExpr.Evaluate(prepareMathParameters(lastN))
	if err != nil {
		return 0, err
	}
	v, ok := res.(float64)
	if !ok {
		return 0, fmt.Errorf("error expression returned %T, not a number", res)
	}
	return v, nil
}
