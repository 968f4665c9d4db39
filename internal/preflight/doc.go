// Package preflight provides readiness checks for the binaries and
// filesystem paths postshow depends on.
//
// These checks run in two contexts:
//   - The process command calls CheckSystemDeps before starting an encode so
//     a missing LAME fails fast instead of after prompting.
//   - The CLI "postshow status" command uses RunAll to display environment
//     health.
package preflight
