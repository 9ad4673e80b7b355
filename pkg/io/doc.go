// Package io reads and writes flow graphs in the three supported text formats.
//
// # Overview
//
// Every reader returns a validated [flow.Graph] or a structured error from
// [github.com/matzehuels/sankeyflow/pkg/errors]: PARSE_ERROR when the text
// itself is malformed, VALIDATION_ERROR when it parses but describes an
// invalid graph.
//
// # JSON Format
//
//	{
//	  "nodes": [
//	    {"id": "coal", "name": "Coal", "value": 100},
//	    {"id": "power", "name": "Power"}
//	  ],
//	  "links": [
//	    {"source": "coal", "target": "power", "value": 100}
//	  ]
//	}
//
// "edges" is accepted in place of "links". A node needs at least one of id
// and name; each falls back to the other. Node values are optional.
//
// # CSV and TSV Formats
//
// The first line is a header naming the source, target and value columns
// (synonyms: from, to, weight) in any order; extra columns are ignored.
// Each following line is one edge:
//
//	source,target,value
//	A,B,10
//	A,C,5
//
// The node set is the union of all source and target cells; such implicit
// nodes use their ID as name and have declared value 0. Rows with fewer than
// three cells are skipped. TSV is parsed natively with a tab delimiter, so
// cells may contain commas.
//
// # Round Trips
//
// [Write] produces text that [Read] accepts. CSV and TSV carry only edges,
// so node names and declared values survive only the JSON format.
package io
