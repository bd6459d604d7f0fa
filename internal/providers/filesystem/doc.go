// Package filesystem exposes scoped file access to the UI.
//
// Every path must be absolute and match one of the provider's doublestar
// scope patterns. The defaults cover the application's log and data
// directories.
//
// Commands:
//   - read_text_file, write_text_file
//   - exists, file_info
//   - find_files (parallel walk, doublestar pattern)
//   - compress_file (gzip or zstd)
package filesystem
