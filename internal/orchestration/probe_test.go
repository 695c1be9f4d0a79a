package orchestration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xu-lang/xubench/internal/invoke"
	"github.com/xu-lang/xubench/internal/models"
	"github.com/xu-lang/xubench/internal/parse"
	"go.uber.org/mock/gomock"
)

func probeSuite() *models.Suite {
	s := testSuite()
	s.Probes = []models.ProbeSpec{
		{ID: "xu", Command: "./xu_probe"},
		{ID: "node", Command: "node", Args: []string{"probe.js"}},
	}
	return s
}

func TestRunProbes_MedianAcrossRounds(t *testing.T) {
	ctrl := gomock.NewController(t)
	suite := probeSuite()

	perNsByCommand := map[string][]uint64{
		"./xu_probe": {30, 10, 20},
		"node":       {21, 21, 21},
	}
	rounds := map[string]int{}

	invoker := invoke.NewMockInvoker(ctrl)
	invoker.EXPECT().
		Invoke(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, spec invoke.CommandSpec) (invoke.Result, error) {
			perNs := perNsByCommand[spec.Command][rounds[spec.Command]]
			rounds[spec.Command]++
			lang := "xu"
			if spec.Command == "node" {
				lang = "node"
			}
			out := fmt.Sprintf("lang=%s iters=200000 total_ns=%d per_ns=%d\n", lang, perNs*200000, perNs)
			return invoke.Result{Stdout: out}, nil
		}).
		Times(6)

	runner := NewRunner(testConfig(suite), invoker)
	outcomes, err := runner.RunProbes(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	assert.Equal(t, models.RuntimeID("xu"), outcomes[0].ID)
	assert.Equal(t, uint64(200000), outcomes[0].Iters)
	assert.Equal(t, 20.0, outcomes[0].MedianPerNs)
	require.Len(t, outcomes[0].Samples, 3)

	assert.Equal(t, models.RuntimeID("node"), outcomes[1].ID)
	assert.Equal(t, 21.0, outcomes[1].MedianPerNs)
	assert.Equal(t, 0.0, outcomes[1].StdevPerNs)
}

func TestRunProbes_MalformedOutputIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	suite := probeSuite()

	invoker := invoke.NewMockInvoker(ctrl)
	invoker.EXPECT().
		Invoke(gomock.Any(), gomock.Any()).
		Return(invoke.Result{Stdout: "segfault somewhere\n"}, nil)

	runner := NewRunner(testConfig(suite), invoker)
	_, err := runner.RunProbes(context.Background(), 2)
	require.Error(t, err)

	var malformed *parse.MalformedOutputError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, err.Error(), "probe xu")
}

func TestRunProbes_InvocationFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	suite := probeSuite()

	invoker := invoke.NewMockInvoker(ctrl)
	invoker.EXPECT().
		Invoke(gomock.Any(), gomock.Any()).
		Return(invoke.Result{}, &invoke.TimeoutError{Command: "./xu_probe", Timeout: time.Minute})

	runner := NewRunner(testConfig(suite), invoker)
	_, err := runner.RunProbes(context.Background(), 2)
	require.Error(t, err)

	var timeout *invoke.TimeoutError
	assert.ErrorAs(t, err, &timeout)
}

func TestRunProbes_DefaultRounds(t *testing.T) {
	ctrl := gomock.NewController(t)
	suite := probeSuite()
	suite.Probes = suite.Probes[:1]

	invoker := invoke.NewMockInvoker(ctrl)
	invoker.EXPECT().
		Invoke(gomock.Any(), gomock.Any()).
		Return(invoke.Result{Stdout: "lang=xu iters=10 total_ns=100 per_ns=10\n"}, nil).
		Times(DefaultProbeRounds)

	runner := NewRunner(testConfig(suite), invoker)
	outcomes, err := runner.RunProbes(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Len(t, outcomes[0].Samples, DefaultProbeRounds)
}
