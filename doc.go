// Package typedembed embeds binary files into Go programs as typed data.
//
// The typedembed command, run by go generate, validates a file against a
// Go type at generate time and writes the data as Go literals:
//
//	//go:generate go run github.com/invakid404/typedembed/cmd/typedembed slice --type uint32 --name Table data/table.bin
//
// A file whose length does not fit the type, or a type that is not plain
// data, makes go generate fail with a diagnostic naming the file, the type
// and the expected and actual sizes.
//
// The same checks are available as a library for bytes obtained with
// //go:embed:
//
//	//go:embed data/table.bin
//	var tableData string
//
//	var Table = typedembed.MustSlice[uint32](typedembed.String("data/table.bin", tableData))
//
// Plain data means every bit pattern of the type's size is a valid value
// and the type holds no pointers: integers, floats, complex numbers, and
// arrays and padding-free structs of those. Other types (bool, structs with
// padding, anything with a pointer) are only accepted by the Unchecked
// entry points, which leave validity of the bytes to the caller.
//
// Byte order is never converted. Multi-byte values are read in the byte
// order of the architecture the program runs on.
package typedembed
