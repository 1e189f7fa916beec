package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/vmpilot/vmpilot/internal/config"
)

func TestExecutor_FailureIsolation(t *testing.T) {
	// Target 101's start raises; 100 and 102 must still be processed.
	client := newMockClient()
	client.startFunc = func(tg config.LaunchTarget) error {
		if tg.ID == 101 {
			return errors.New("transport failure")
		}
		return nil
	}

	notifier := &mockNotifier{}
	st := NewStarter(client, AlwaysReady{}, testLogger())
	ex := NewExecutor(st, notifier, nil, testLogger())

	targets := []config.LaunchTarget{testTarget(100), testTarget(101), testTarget(102)}
	sum := ex.Run(context.Background(), targets)

	if ex.State() != RunCompleted {
		t.Errorf("Expected run state completed, got %s", ex.State())
	}
	if sum.Failed() != 1 {
		t.Errorf("Expected exactly 1 failed outcome, got %d", sum.Failed())
	}
	if sum.Started() != 2 {
		t.Errorf("Expected 2 started outcomes, got %d", sum.Started())
	}
	if len(sum.Outcomes) != 3 {
		t.Fatalf("Expected 3 outcomes, got %d", len(sum.Outcomes))
	}
	if sum.Outcomes[1].Status != StatusFailed {
		t.Errorf("Expected middle target to fail, got %s", sum.Outcomes[1].Status)
	}
}

func TestExecutor_ProcessesTargetsInOrder(t *testing.T) {
	st := &mockStarter{
		startFunc: func(tg config.LaunchTarget) Outcome {
			return Outcome{Target: tg, Status: StatusStarted}
		},
	}
	notifier := &mockNotifier{}
	ex := NewExecutor(st, notifier, nil, testLogger())

	targets := []config.LaunchTarget{testTarget(300), testTarget(100), testTarget(200)}
	ex.Run(context.Background(), targets)

	if len(st.startCalls) != 3 {
		t.Fatalf("Expected 3 start calls, got %d", len(st.startCalls))
	}
	for i, want := range []int{300, 100, 200} {
		if st.startCalls[i].ID != want {
			t.Errorf("Call %d: expected target %d, got %d", i, want, st.startCalls[i].ID)
		}
		if notifier.notified[i].Target.ID != want {
			t.Errorf("Notify %d: expected target %d, got %d", i, want, notifier.notified[i].Target.ID)
		}
	}
}

func TestExecutor_SendsNotificationsOnEveryExitPath(t *testing.T) {
	t.Run("normal completion", func(t *testing.T) {
		st := &mockStarter{
			startFunc: func(tg config.LaunchTarget) Outcome {
				return Outcome{Target: tg, Status: StatusStarted}
			},
		}
		notifier := &mockNotifier{}
		ex := NewExecutor(st, notifier, nil, testLogger())
		ex.Run(context.Background(), []config.LaunchTarget{testTarget(100)})

		if notifier.sendCalls != 1 {
			t.Errorf("Expected exactly one Send, got %d", notifier.sendCalls)
		}
		if len(notifier.fatals) != 0 {
			t.Errorf("Expected no fatal notification, got %v", notifier.fatals)
		}
	})

	t.Run("fatal preflight", func(t *testing.T) {
		st := &mockStarter{
			startFunc: func(tg config.LaunchTarget) Outcome {
				t.Fatal("starter must not be invoked after a fatal preflight")
				return Outcome{}
			},
		}
		notifier := &mockNotifier{}
		preflight := func(context.Context) error { return errors.New("authentication failed") }
		ex := NewExecutor(st, notifier, preflight, testLogger())

		sum := ex.Run(context.Background(), []config.LaunchTarget{testTarget(100)})

		if ex.State() != RunCompleted {
			t.Errorf("Expected run state completed after fatal, got %s", ex.State())
		}
		if sum.Fatal == nil {
			t.Error("Expected summary to carry the fatal error")
		}
		if len(sum.Outcomes) != 0 {
			t.Errorf("Expected empty summary, got %d outcomes", len(sum.Outcomes))
		}
		if len(notifier.fatals) != 1 || notifier.fatals[0] != "authentication failed" {
			t.Errorf("Expected one fatal notification, got %v", notifier.fatals)
		}
		if notifier.sendCalls != 1 {
			t.Errorf("Expected Send despite fatal, got %d calls", notifier.sendCalls)
		}
	})
}

func TestExecutor_NilNotifier(t *testing.T) {
	st := &mockStarter{
		startFunc: func(tg config.LaunchTarget) Outcome {
			return Outcome{Target: tg, Status: StatusStarted}
		},
	}
	ex := NewExecutor(st, nil, nil, testLogger())

	sum := ex.Run(context.Background(), []config.LaunchTarget{testTarget(100)})
	if sum.Started() != 1 {
		t.Errorf("Expected run to proceed without a notifier, got %+v", sum)
	}
}

func TestExecutor_StateMachine(t *testing.T) {
	st := &mockStarter{
		startFunc: func(tg config.LaunchTarget) Outcome {
			return Outcome{Target: tg, Status: StatusStarted}
		},
	}
	ex := NewExecutor(st, nil, nil, testLogger())

	if ex.State() != RunNotStarted {
		t.Errorf("Expected initial state not-started, got %s", ex.State())
	}
	ex.Run(context.Background(), nil)
	if ex.State() != RunCompleted {
		t.Errorf("Expected state completed after empty run, got %s", ex.State())
	}
}

func TestSummaryCounts(t *testing.T) {
	sum := newSummary()
	sum.record(Outcome{Target: testTarget(1), Status: StatusStarted})
	sum.record(Outcome{Target: testTarget(2), Status: StatusAlreadyRunning})
	sum.record(Outcome{Target: testTarget(3), Status: StatusFailed, Reason: "x"})
	sum.record(Outcome{Target: testTarget(4), Status: StatusStarted})

	if sum.Started() != 2 || sum.Skipped() != 1 || sum.Failed() != 1 {
		t.Errorf("Unexpected counts: started=%d skipped=%d failed=%d",
			sum.Started(), sum.Skipped(), sum.Failed())
	}
	if sum.RunID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("Expected a non-zero run ID")
	}
}
