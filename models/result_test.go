package models

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestResult_Failed(t *testing.T) {
	tests := []struct {
		name     string
		runs     []Run
		expected []Run
	}{
		{
			name:     "no runs",
			runs:     nil,
			expected: nil,
		},
		{
			name:     "all succeeded",
			runs:     []Run{{Trigger: "a.go"}, {Trigger: "b.go"}},
			expected: nil,
		},
		{
			name: "keeps failures in order",
			runs: []Run{
				{Trigger: "a.go", Error: errors.New("exit 1"), ExitCode: 1},
				{Trigger: "b.go"},
				{Trigger: "c.go", Error: errors.New("exit 2"), ExitCode: 2},
			},
			expected: []Run{
				{Trigger: "a.go", Error: errors.New("exit 1"), ExitCode: 1},
				{Trigger: "c.go", Error: errors.New("exit 2"), ExitCode: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Result{Runs: tt.runs}
			failed := r.Failed()
			assert.Len(t, failed, len(tt.expected))
			for i := range tt.expected {
				assert.Equal(t, tt.expected[i].Trigger, failed[i].Trigger)
				assert.Equal(t, tt.expected[i].ExitCode, failed[i].ExitCode)
				assert.EqualError(t, failed[i].Error, tt.expected[i].Error.Error())
			}
		})
	}
}
