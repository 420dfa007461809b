package filter

import (
	"context"
	"testing"

	"github.com/s0up4200/forecastctl/forecast"
)

// Benchmark filter compilation
func BenchmarkCompileFilter(b *testing.B) {
	expressions := []struct {
		name string
		expr string
	}{
		{"simple", `projectId == 3`},
		{"complex", `projectId == 3 and allocation >= 4 and startDate > daysAgo(30)`},
	}

	for _, tc := range expressions {
		b.Run(tc.name, func(b *testing.B) {
			compiler := NewExprCompiler()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, err := compiler.Compile(tc.expr)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// Benchmark filter compilation with caching
func BenchmarkCompileFilterWithCache(b *testing.B) {
	compiler := NewExprCompiler(WithCache(100))
	expression := `projectId == 3 and allocation >= 4`

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := compiler.Compile(expression)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// Benchmark concurrent evaluation
func BenchmarkApply(b *testing.B) {
	assignments := generateTestAssignments(10000)
	filter, err := NewExprCompiler().Compile(`!isPlaceholder and allocation >= 4`)
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	runs := []struct {
		name string
		opts []EvaluatorOption
	}{
		{"workers-1", []EvaluatorOption{WithWorkers(1)}},
		{"workers-4", []EvaluatorOption{WithWorkers(4)}},
		{"workers-8", []EvaluatorOption{WithWorkers(8)}},
		{"workers-default", nil},
	}

	for _, tc := range runs {
		b.Run(tc.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, err := Apply(ctx, filter, assignments, AssignmentEnv, tc.opts...)
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// Benchmark environment construction
func BenchmarkEnv(b *testing.B) {
	project := forecast.Project{ID: forecast.ProjectIDOf(1), Name: "Website", Tags: []string{"internal", "q1", "design"}}

	b.Run("project", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_ = ProjectEnv(project)
		}
	})

	b.Run("hasTag", func(b *testing.B) {
		hasTag := createHasFunc(project.Tags)
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			_ = hasTag("design")
		}
	})
}
