package agent

import "github.com/aegntic/aegnt-unltd/core"

// Reflect computes the reflection for a step-result sequence. It is a
// pure function: the same sequence of success flags always yields the
// same reflection.
//
// success_rate is 1 - failed/total (1 when there are no steps) and
// should_evolve triggers on a strict majority of failed steps.
func Reflect(steps []core.StepResult) core.Reflection {
	r := core.Reflection{TotalSteps: len(steps), SuccessRate: 1}
	for _, s := range steps {
		if !s.Success {
			r.FailedSteps++
		}
	}
	if r.TotalSteps > 0 {
		r.SuccessRate = 1 - float64(r.FailedSteps)/float64(r.TotalSteps)
	}
	r.ShouldEvolve = r.FailedSteps > r.TotalSteps/2

	if r.SuccessRate > 0.9 {
		r.Insights = append(r.Insights, "high success rate, consider generalizing this approach")
	}
	if r.FailedSteps > 0 {
		r.Insights = append(r.Insights, "some steps failed, consider creating a new tool")
	}
	return r
}
