// Package changelog parses CHANGELOG.md and CHANGELOG.rst files into a typed
// block tree and implements the edits the release workflow makes to them.
//
// A changelog has a level-1 title followed by one level-2 heading per version,
// newest first. Each version heading is followed by a bullet list whose items
// start with one of the category tags:
//
//	# CHANGELOG
//
//	## 0.2dev
//
//	* [API Change] Drops support for the old loader
//	* [Feature] Adds `--yes` flag
//	* [Fix] Fixes crash on empty input (#12)
//	* [Doc] Documents the release workflow
//
// This package implements:
//   - Markdown parsing through goldmark with only code spans and links
//     enabled, so underscores and asterisks in entries are kept as text
//   - reStructuredText parsing with a line-based section and bullet scanner
//   - Entry extraction and classification for the latest section
//   - Lossless reordering of the latest section by category
//   - Header edits for releases and new dev sections
//   - Issue reference expansion and terminal formatting
//
// Every edit splices bytes of the original source, so anything outside the
// edited range is written back unchanged.
package changelog
