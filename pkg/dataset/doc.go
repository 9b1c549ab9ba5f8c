/*
Package dataset converts host-supplied tabular data into the row/column model
that templates render against.

A Dataset carries typed column metadata and row-major values. Project turns it
into a Table whose rows are keyed by column display name, parsing temporal
columns into time.Time values and attaching an optional per-row selection
identity. Datasets can be read from YAML or JSON documents with Load, or built
from a SQL result set with FromRows.
*/
package dataset
