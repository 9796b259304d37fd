// Package bbcode converts forum BBCode markup into safe, styled HTML.
//
// The engine is a pure function over a single working string: no I/O, no
// shared state, no error path. Transform never fails; malformed input
// degrades to literal (escaped) text rather than raising.
//
// ARCHITECTURE:
//
// Whole-String Rewrite Pipeline:
//  1. Input is normalized (NFC, control characters stripped) and
//     HTML-escaped exactly once.
//  2. Literal regions ([code], [pre]) are rendered immediately and parked
//     behind reserved placeholder tokens so no later rule can re-enter them.
//  3. An ordered rule table is applied repeatedly until a full pass changes
//     nothing or the pass ceiling is reached. Paired-tag rules recursively
//     re-enter the pipeline on their captured bodies.
//  4. A single post-processing pass links @mentions and converts newlines
//     to <br>, suppressing breaks that are redundant around block elements.
//  5. Parked literal regions are restored and stray sentinels stripped.
//
// INVARIANTS:
//   - Rules are evaluated in declaration order, every pass.
//   - Paired bodies are captured non-greedily to the nearest close tag.
//   - Escaping is applied exactly once to any user-sourced text.
//   - Reserved tokens (list sentinels, literal placeholders) never appear
//     in returned output.
//
// An Engine is immutable after New and safe for concurrent use.
package bbcode
