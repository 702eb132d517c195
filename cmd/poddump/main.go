package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/spf13/cobra"

	pod "github.com/podwire/pod"
)

func prettyPrint(v any) string {
	buf, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		log.Printf("JSON marshal error: %v", err)
		return fmt.Sprintf("%+v", v)
	}
	return string(buf)
}

// dumpEntry is the JSON-friendly view of one top-level value in the
// buffer, printed by dump for every sibling in sequence.
type dumpEntry struct {
	Offset uint32 `json:"offset"`
	Kind   string `json:"kind"`
	Size   uint32 `json:"size"`
}

func dump(buf []byte) {
	it := pod.NewIterator(buf)
	for {
		before := it.Offset()
		v, err := it.Next()
		if err == pod.ErrNotInside {
			return
		}
		if err != nil {
			log.Printf("malformed value at offset %d: %v", before, err)
			return
		}
		entry := dumpEntry{Offset: before, Kind: v.Kind.String(), Size: v.Size()}
		fmt.Println(prettyPrint(entry))

		if v.IsObject() {
			props, err := v.Properties()
			if err != nil {
				log.Printf("properties at offset %d: %v", before, err)
				continue
			}
			fmt.Println(prettyPrint(props))
		}
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" || path == "" {
		return io.ReadAll(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	return bytes.Clone([]byte(m)), nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "poddump",
		Short: "Pretty-prints POD-encoded buffers",
		Long:  "poddump walks a buffer of self-describing POD values and prints each top-level value and, for Objects, its properties.",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			buf, err := readInput(path)
			if err != nil {
				log.Printf("error reading %s: %v", path, err)
				os.Exit(1)
			}
			dump(buf)
		},
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
