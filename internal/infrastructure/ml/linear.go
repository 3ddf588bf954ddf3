package ml

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ridge keeps the normal equations solvable when a feature is constant
const ridge = 1e-8

// LinearRegression is an ordinary least squares baseline with intercept
type LinearRegression struct {
	Intercept    float64
	Coefficients []float64
}

// NewLinearRegression creates an unfitted linear model
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

// Fit solves (XᵀX + λI)β = Xᵀy on the intercept-augmented design matrix
func (l *LinearRegression) Fit(ctx context.Context, X [][]float64, y []float64) error {
	if err := checkTrainingSet(X, y); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	n, p := len(X), len(X[0])+1
	design := mat.NewDense(n, p, nil)
	for i, row := range X {
		design.Set(i, 0, 1)
		for j, v := range row {
			design.Set(i, j+1, v)
		}
	}
	target := mat.NewVecDense(n, y)

	var gram mat.Dense
	gram.Mul(design.T(), design)
	for j := 1; j < p; j++ {
		gram.Set(j, j, gram.At(j, j)+ridge)
	}
	var rhs mat.VecDense
	rhs.MulVec(design.T(), target)

	var beta mat.VecDense
	if err := beta.SolveVec(&gram, &rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return fmt.Errorf("solve normal equations: %w", err)
		}
	}

	l.Intercept = beta.AtVec(0)
	l.Coefficients = make([]float64, p-1)
	for j := range l.Coefficients {
		l.Coefficients[j] = beta.AtVec(j + 1)
	}
	return nil
}

// Predict evaluates the linear function
func (l *LinearRegression) Predict(x []float64) float64 {
	out := l.Intercept
	for j, c := range l.Coefficients {
		out += c * x[j]
	}
	return out
}

// FeatureImportances is nil; coefficients are not comparable importances
func (l *LinearRegression) FeatureImportances() []float64 {
	return nil
}
