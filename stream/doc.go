// Package stream decodes documents incrementally as structural events.
//
// Unlike parse, which materializes a complete document tree, the stream
// decoder reads the body line by line and emits begin/end, row, and
// scalar events as they appear. Memory use is bounded by the open
// structure and the configured limits rather than by input size.
// References are reported as values but never resolved.
//
// # Example: Decoding
//
//	dec, err := stream.NewDecoder(r)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(dec.Header().Version)
//	for {
//	    ev, err := dec.ReadEvent()
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    switch ev.Type {
//	    case stream.EventRow:
//	        fmt.Println(ev.Node.TypeName, ev.Node.ID)
//	    case stream.EventScalar:
//	        fmt.Println(ev.Key, ev.Value)
//	    }
//	}
//
// # Related Packages
//
// Package parse builds complete documents with reference resolution.
// Package c14n renders documents back to canonical text.
package stream
