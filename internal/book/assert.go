package book

// debugAssertions gates the panics that guard broken invariants
// (negative total_qty, double-link, dangling node) rather than trying
// to recover from them — those are programmer errors, not user-facing
// failures. Flip to false to strip the checks from hot loops in a
// production build.
const debugAssertions = true
