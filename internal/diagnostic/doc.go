// Package diagnostic collects errors, warnings and notes produced while a
// creation call is declared and run, so they can be reported together.
//
// Key uses:
//   - usage errors accumulated by the builder and returned by Create
//   - unused selectors reported in strict mode, logged in lenient mode
//   - errors recovered under the lenient error policy
package diagnostic
