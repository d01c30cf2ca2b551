// Package dataset reads headline rows from the spreadsheet, a CSV export or the
// migrated headlines table.
//
// Spreadsheet and CSV sources share one contract: the first row is a header and
// columns are located by the names headline, full_text and image_name (compared
// case-insensitively after trimming). image_name is required; the other two may be
// absent, in which case those fields are empty. Paths may be local files or
// http(s) URLs.
package dataset
