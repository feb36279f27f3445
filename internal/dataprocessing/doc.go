// Package dataprocessing normalizes spreadsheet exports of daily
// stock-screening results into canonical per-stock observation series.
//
// The upstream screening tool exports heterogeneous tabular layouts:
// single or multi-row headers with merged cells, dates embedded in column
// names, a zoo of null markers, and numbers serialized as text. This
// package resolves headers into self-describing labels, sanitizes cell
// values into a first-class missing/number/text representation, extracts
// dates from column labels, and builds ordered closing-price and
// moving-average series per stock row.
//
// Every operation here is pure: malformed cells become missing values,
// never errors, and no function mutates its input.
package dataprocessing
