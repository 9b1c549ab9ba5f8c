// Package numfmt formats numbers from compact format specifiers of the form
//
//	[[fill]align][sign][symbol][0][width][,][.precision][~][type]
//
// as used by d3-format. Output follows the en-US locale: "," groups
// thousands, "." is the decimal point and negative values use the Unicode
// minus sign.
package numfmt
