// Package filepack stores named, typed byte blocks in a single file with a
// descriptor table for random access by name.
//
// An archive is laid out as
//
//	header (16 bytes) | block 0 | block 1 | ... | descriptor table
//
// The header holds a 6-byte signature chosen by the producer, the table
// version and the absolute offset of the descriptor table. Blocks are packed
// back to back in the order they were added. Each block is stored raw or
// compressed with a codec from the [codec] package; the codec tag is kept per
// block so readers never guess.
//
// # Writing
//
//	sig := filepack.MustSignature("FNTMSH")
//	err := filepack.Build("out.pack", filepack.ModeWrite, sig, func(w *filepack.Writer) error {
//	    return w.Add("idx", indices, 5, "uint32")
//	})
//
// A level of zero stores the block raw. The descriptor table is written on
// Flush and on Close; Close always flushes.
//
// # Reading
//
//	r, err := filepack.Open("out.pack", sig)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	indices, err := r.Get("idx")
//
// A Reader never modifies the file. Get uses positional reads, so a single
// Reader may be shared between goroutines.
//
// # Table versions
//
// Version 1 (the default) compresses the descriptor table with the
// registry's default codec. Version 0 stores it as plain text and is kept for
// compatibility with older archives.
package filepack
