package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/catatsuy/listdict/internal/queue"
)

type request struct {
	cmd    string
	args   []string
	isQuit bool
}

func parseLine(line string) (request, error) {
	line = strings.TrimSuffix(line, "\r\n")
	line = strings.TrimSuffix(line, "\n")
	if line == "" {
		return request{}, fmt.Errorf("empty command")
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return request{}, fmt.Errorf("empty command")
	}

	cmd := strings.ToLower(fields[0])
	if cmd == "quit" {
		return request{cmd: cmd, isQuit: true}, nil
	}

	return request{cmd: cmd, args: fields[1:]}, nil
}

// stripNoreply removes a trailing "noreply" token.
func stripNoreply(args []string) ([]string, bool) {
	if n := len(args); n > 0 && args[n-1] == "noreply" {
		return args[:n-1], true
	}
	return args, false
}

type storeArgs struct {
	key     string
	flags   uint32
	bytesN  int
	noreply bool
}

// parseStoreArgs parses "<key> <flags> <exptime> <bytes> [noreply]".
// exptime is validated but entries never expire.
func parseStoreArgs(cmd string, args []string) (storeArgs, error) {
	args, noreply := stripNoreply(args)
	if len(args) != 4 {
		return storeArgs{}, fmt.Errorf("%s requires 4 arguments", cmd)
	}
	flags, err := parseFlags(args[1])
	if err != nil {
		return storeArgs{}, err
	}
	if _, err := strconv.ParseInt(args[2], 10, 64); err != nil {
		return storeArgs{}, fmt.Errorf("invalid exptime")
	}
	bytesN, err := parseBytes(args[3])
	if err != nil {
		return storeArgs{}, err
	}
	a := storeArgs{key: args[0], flags: flags, bytesN: bytesN, noreply: noreply}
	if err := queue.ValidateKey(a.key); err != nil {
		return a, err
	}
	return a, nil
}

// parsePushArgs parses "<flags> <bytes>".
func parsePushArgs(args []string) (flags uint32, bytesN int, err error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("push requires flags and bytes")
	}
	flags, err = parseFlags(args[0])
	if err != nil {
		return 0, 0, err
	}
	bytesN, err = parseBytes(args[1])
	if err != nil {
		return 0, 0, err
	}
	return flags, bytesN, nil
}

// parseAddLinksArgs parses "<base> <bytes>".
func parseAddLinksArgs(args []string) (base string, bytesN int, err error) {
	if len(args) != 2 {
		return "", 0, fmt.Errorf("addlinks requires base and bytes")
	}
	bytesN, err = parseBytes(args[1])
	if err != nil {
		return "", 0, err
	}
	return args[0], bytesN, nil
}

// parseAddURLArgs parses "<url> [front]".
func parseAddURLArgs(args []string) (rawURL string, toFront bool, err error) {
	switch {
	case len(args) == 1:
		return args[0], false, nil
	case len(args) == 2 && strings.EqualFold(args[1], "front"):
		return args[0], true, nil
	}
	return "", false, fmt.Errorf("addurl requires url and optional front")
}

// parseKeyArg parses "<key> [noreply]".
func parseKeyArg(cmd string, args []string) (key string, noreply bool, err error) {
	args, noreply = stripNoreply(args)
	if len(args) != 1 {
		return "", false, fmt.Errorf("%s requires key", cmd)
	}
	if err := queue.ValidateKey(args[0]); err != nil {
		return "", false, err
	}
	return args[0], noreply, nil
}

func parseFlags(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid flags")
	}
	return uint32(v), nil
}

func parseBytes(s string) (int, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid bytes")
	}
	return int(v), nil
}
