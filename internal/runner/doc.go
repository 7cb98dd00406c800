// Package runner drives the step loop: request a completion over the full
// history, parse the reply as a Step, dispatch, repeat.
//
// Flow:
//
//	system, user(query) -> assistant(think)* -> assistant(action) -> user(observe) -> ... -> assistant(output)
//
// Parse and provider failures end the run. Unknown tools and tool failures
// do not: the former is only reported, the latter is fed back to the model.
package runner
