// Package agenda reconstructs printed clinic agendas into structured appointment records.
//
// A printed agenda is a PDF with no structural markup: every cell of the schedule arrives as a
// loose run of text tagged with a position on the page. This package rebuilds the reading order
// from those positions and then extracts appointments line by line.
//
// The pipeline has three stages:
//
// - Line reconstruction: positioned fragments are grouped into visual lines (top to bottom,
// left to right) using a vertical tolerance.
// - Appointment extraction: each line is classified as a new appointment (it carries a time
// range such as "08:00 - 08:15") or as the wrapped continuation of the previous patient name,
// and fields are stripped off in column order (status, contact, insurance and procedure)
// until only the patient name remains.
// - Summary: counts, first and last times and the list of free slots of one agenda.
//
// Key Types:
//
// - Fragment, Page: positioned input produced by a text source (see pdftext, hocr, gdocai)
// - Line: one reconstructed line of text
// - Appointment, Result: extraction output
// - Summary: aggregate view of one Result
// - Layout: tolerance, column schema and other layout constants of the source template
// - Keywords: the keyword tables driving field extraction
//
// Main Functions:
//
// - Lines / Text: reconstruct lines from pages
// - NewParser, Parser.Parse, Parser.ParsePages: extract appointments
// - Summarize: build the aggregate summary
package agenda
