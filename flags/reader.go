package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// ReaderFlags selects the byte source and tunes the greedy reader wrapped around it.

func ReaderFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "input, i",
			Usage: "File to read from ('-' for standard input)",
			Value: "-",
		},
		cli.IntFlag{
			Name:  "repeat",
			Usage: "Read from an endless stream of this byte value instead of --input (0-255)",
			Value: -1,
		},
		cli.StringFlag{
			Name:  "preset",
			Usage: "Reader preset (default|small|stream|archive)",
			Value: "default",
		},
		cli.IntFlag{
			Name:  "capacity",
			Usage: "Initial buffer capacity in bytes",
		},
		cli.IntFlag{
			Name:  "chunk",
			Usage: "Largest chunk written per step by the cat command",
		},
		cli.IntFlag{
			Name:  "compact",
			Usage: "Drop consumed bytes once this many have been streamed (0 keeps everything)",
		},
	}
}

// SliceFlags are the flags of the slice command.
func SliceFlags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{
			Name:  "inclusive",
			Usage: "Treat <end> as the last index to include",
		},
		cli.BoolFlag{
			Name:  "raw",
			Usage: "Write the bytes as they are instead of hex",
		},
	}
}

// GetFlags are the flags of the get command.
func GetFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "as",
			Usage: "Decode at <index> as byte|u32|u64 (big-endian)",
			Value: "byte",
		},
	}
}

// CatFlags are the flags of the cat command.
func CatFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "limit",
			Usage: "Stop after this many bytes (0 copies until the end of the input)",
		},
	}
}

// StatFlags are the flags of the stat command.
func StatFlags() []cli.Flag {
	return []cli.Flag{
		cli.BoolFlag{
			Name:  "shrink",
			Usage: "Release unused buffer capacity before reporting",
		},
	}
}
