// Package ooxml is a typed model of the WordprocessingML markup that the
// adaptation engine rewrites: documents, paragraphs, runs, tables and their
// formatting properties.
//
// The model is deliberately partial. Elements the engine understands (text,
// run and paragraph properties, table geometry) are parsed into typed fields;
// everything else is captured verbatim as RawXML and re-emitted on
// serialization, so a rewrite pass can rebuild a paragraph's run list without
// losing drawings, bookmarks, field codes, or any style attribute it has
// never heard of.
package ooxml
