/*
Package generation tracks the evolution of blueprints across numbered
generations.

The Tracker records, per component, the current generation, the changes and
metrics captured at each advancement, and a checksum of every recorded
change set. The Archive stores the blueprint text of every generation as
compressed gen_<N>.kl.gz files next to a normalized YAML rendering. The
Loop drives test/improve/validate cycles that advance components through
generations automatically.
*/
package generation
