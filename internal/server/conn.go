package server

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/catatsuy/listdict/internal/model"
	"github.com/catatsuy/listdict/internal/queue"
	"github.com/google/uuid"
)

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	logger := s.logger.With("conn", uuid.NewString())
	logger.Debug("connection opened", "remote", conn.RemoteAddr().String())
	defer logger.Debug("connection closed")

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)

	for {
		line, err := readCommandLine(r)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Warn("read error", "err", err)
			}
			return
		}

		req, err := parseLine(line)
		if err != nil {
			_ = writeClientError(w, "bad command line format")
			if flushErr := w.Flush(); flushErr != nil {
				return
			}
			continue
		}
		if req.isQuit {
			return
		}

		switch req.cmd {
		case "get":
			err = s.handleGetLike(w, req.args, false)
		case "gets":
			err = s.handleGetLike(w, req.args, true)
		case "add":
			err = s.handleAdd(r, w, req.cmd, req.args, false)
		case "addfirst":
			err = s.handleAdd(r, w, req.cmd, req.args, true)
		case "push":
			err = s.handlePush(r, w, req.args)
		case "addurl":
			err = s.handleAddURL(w, req.args)
		case "addlinks":
			err = s.handleAddLinks(r, w, req.args)
		case "peek":
			err = s.handleFirst(w, req.args, s.queue.Peek)
		case "shift":
			err = s.handleFirst(w, req.args, s.queue.Shift)
		case "rotate":
			err = s.handleFirst(w, req.args, s.queue.Rotate)
		case "take":
			err = s.handleTake(w, req.args)
		case "delete":
			err = s.handleDelete(w, req.args)
		case "flush_all":
			err = s.handleFlushAll(w, req.args)
		case "size":
			_, err = fmt.Fprintf(w, "SIZE %d\r\n", s.queue.Len())
		case "stats":
			err = s.handleStats(w)
		case "version":
			_, err = fmt.Fprintf(w, "VERSION %s\r\n", s.cfg.Version)
		default:
			err = writeClientError(w, "unknown command")
		}
		if err != nil {
			logger.Debug("write error", "cmd", req.cmd, "err", err)
			return
		}
		if err := w.Flush(); err != nil {
			return
		}
	}
}

func (s *Server) handleGetLike(w *bufio.Writer, args []string, withCAS bool) error {
	if len(args) == 0 {
		return writeClientError(w, "get requires at least one key")
	}

	for _, key := range args {
		if err := queue.ValidateKey(key); err != nil {
			return writeClientError(w, err.Error())
		}
	}

	for _, key := range args {
		item, ok, err := s.queue.Get(key)
		if err != nil {
			return writeClientError(w, err.Error())
		}
		if !ok {
			continue
		}
		if err := writeValue(w, item, withCAS); err != nil {
			return err
		}
	}
	_, err := w.WriteString("END\r\n")
	return err
}

func (s *Server) handleAdd(r *bufio.Reader, w *bufio.Writer, cmd string, args []string, toFront bool) error {
	a, err := parseStoreArgs(cmd, args)
	if err != nil {
		if errors.Is(err, queue.ErrInvalidKey) {
			// the data chunk still follows the command line
			if err := skipDataChunk(r, a.bytesN); err != nil {
				return writeClientError(w, "bad data chunk")
			}
		}
		return writeClientError(w, err.Error())
	}

	value, err := s.readValue(r, a.bytesN)
	if err != nil {
		return writeReadError(w, err)
	}

	added, err := s.queue.Add(a.key, a.flags, value, toFront)
	if err != nil {
		if errors.Is(err, queue.ErrInvalidKey) {
			return writeClientError(w, err.Error())
		}
		return writeServerError(w, "internal error")
	}
	if a.noreply {
		return nil
	}
	if !added {
		_, err = w.WriteString("NOT_STORED\r\n")
		return err
	}
	_, err = w.WriteString("STORED\r\n")
	return err
}

func (s *Server) handlePush(r *bufio.Reader, w *bufio.Writer, args []string) error {
	flags, bytesN, err := parsePushArgs(args)
	if err != nil {
		return writeClientError(w, err.Error())
	}

	value, err := s.readValue(r, bytesN)
	if err != nil {
		return writeReadError(w, err)
	}

	key, err := s.queue.Push(flags, value, false)
	if err != nil {
		s.logger.Error("push failed", "err", err)
		return writeServerError(w, "internal error")
	}
	_, err = fmt.Fprintf(w, "STORED %s\r\n", key)
	return err
}

func (s *Server) handleAddURL(w *bufio.Writer, args []string) error {
	rawURL, toFront, err := parseAddURLArgs(args)
	if err != nil {
		return writeClientError(w, err.Error())
	}

	key, added, err := s.queue.AddURL(rawURL, toFront)
	if err != nil {
		if errors.Is(err, queue.ErrInvalidURL) || errors.Is(err, queue.ErrInvalidKey) {
			return writeClientError(w, err.Error())
		}
		return writeServerError(w, "internal error")
	}
	if !added {
		_, err = fmt.Fprintf(w, "NOT_STORED %s\r\n", key)
		return err
	}
	_, err = fmt.Fprintf(w, "STORED %s\r\n", key)
	return err
}

func (s *Server) handleAddLinks(r *bufio.Reader, w *bufio.Writer, args []string) error {
	base, bytesN, err := parseAddLinksArgs(args)
	if err != nil {
		return writeClientError(w, err.Error())
	}

	page, err := s.readValue(r, bytesN)
	if err != nil {
		return writeReadError(w, err)
	}

	added, err := s.queue.AddLinks(bytes.NewReader(page), base, false)
	if err != nil {
		return writeClientError(w, err.Error())
	}
	_, err = fmt.Fprintf(w, "ADDED %d\r\n", added)
	return err
}

func (s *Server) handleFirst(w *bufio.Writer, args []string, op func() (*model.Item, bool)) error {
	if len(args) != 0 {
		return writeClientError(w, "command takes no arguments")
	}
	if item, ok := op(); ok {
		if err := writeValue(w, item, false); err != nil {
			return err
		}
	}
	_, err := w.WriteString("END\r\n")
	return err
}

func (s *Server) handleTake(w *bufio.Writer, args []string) error {
	key, _, err := parseKeyArg("take", args)
	if err != nil {
		return writeClientError(w, err.Error())
	}
	item, ok, err := s.queue.Take(key)
	if err != nil {
		return writeClientError(w, err.Error())
	}
	if ok {
		if err := writeValue(w, item, false); err != nil {
			return err
		}
	}
	_, err = w.WriteString("END\r\n")
	return err
}

func (s *Server) handleDelete(w *bufio.Writer, args []string) error {
	key, noreply, err := parseKeyArg("delete", args)
	if err != nil {
		return writeClientError(w, err.Error())
	}
	deleted, err := s.queue.Delete(key)
	if err != nil {
		return writeClientError(w, err.Error())
	}
	if noreply {
		return nil
	}
	if deleted {
		_, err := w.WriteString("DELETED\r\n")
		return err
	}
	_, err = w.WriteString("NOT_FOUND\r\n")
	return err
}

func (s *Server) handleFlushAll(w *bufio.Writer, args []string) error {
	args, noreply := stripNoreply(args)
	if len(args) > 1 {
		return writeClientError(w, "flush_all takes at most a delay")
	}
	if len(args) == 1 {
		// entries never expire, so the delay is checked and then ignored
		if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
			return writeClientError(w, "invalid delay")
		}
	}
	s.queue.Flush()
	s.logger.Info("queue flushed")
	if noreply {
		return nil
	}
	_, err := w.WriteString("OK\r\n")
	return err
}

func (s *Server) handleStats(w *bufio.Writer) error {
	stats := []struct {
		name  string
		value any
	}{
		{"pid", os.Getpid()},
		{"version", s.cfg.Version},
		{"curr_items", s.queue.Len()},
		{"bytes", s.queue.Bytes()},
	}
	for _, st := range stats {
		if _, err := fmt.Fprintf(w, "STAT %s %v\r\n", st.name, st.value); err != nil {
			return err
		}
	}
	_, err := w.WriteString("END\r\n")
	return err
}

func writeValue(w *bufio.Writer, item *model.Item, withCAS bool) error {
	if withCAS {
		if _, err := fmt.Fprintf(w, "VALUE %s %d %d %d\r\n", item.Key, item.Flags, len(item.Value), item.CAS); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintf(w, "VALUE %s %d %d\r\n", item.Key, item.Flags, len(item.Value)); err != nil {
			return err
		}
	}
	if _, err := w.Write(item.Value); err != nil {
		return err
	}
	_, err := w.WriteString("\r\n")
	return err
}

func writeClientError(w *bufio.Writer, msg string) error {
	_, err := fmt.Fprintf(w, "CLIENT_ERROR %s\r\n", msg)
	return err
}

func writeServerError(w *bufio.Writer, msg string) error {
	_, err := fmt.Fprintf(w, "SERVER_ERROR %s\r\n", msg)
	return err
}

// readValue reads a data chunk of n bytes. A chunk larger than the item
// limit is discarded without being buffered and ErrObjectTooLarge is
// returned.
func (s *Server) readValue(r *bufio.Reader, n int) ([]byte, error) {
	if n > s.cfg.MaxItemBytes {
		if err := skipDataChunk(r, n); err != nil {
			return nil, err
		}
		return nil, ErrObjectTooLarge
	}
	return readDataChunk(r, n)
}

func writeReadError(w *bufio.Writer, err error) error {
	if errors.Is(err, ErrObjectTooLarge) {
		return writeServerError(w, err.Error())
	}
	return writeClientError(w, "bad data chunk")
}

func skipDataChunk(r *bufio.Reader, n int) error {
	if _, err := r.Discard(n); err != nil {
		return err
	}
	return consumeChunkTerminator(r)
}

func readDataChunk(r *bufio.Reader, n int) ([]byte, error) {
	value := make([]byte, n)
	if _, err := io.ReadFull(r, value); err != nil {
		return nil, err
	}
	if err := consumeChunkTerminator(r); err != nil {
		return nil, err
	}
	return value, nil
}

// readCommandLine accepts CRLF, LF, CR and CR NUL (common telnet newline).
func readCommandLine(r *bufio.Reader) (string, error) {
	var buf bytes.Buffer

	for {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && buf.Len() > 0 {
				return buf.String(), nil
			}
			return "", err
		}

		switch b {
		case '\n':
			return buf.String(), nil
		case '\r':
			next, err := r.ReadByte()
			if err == nil {
				if next != '\n' && next != 0x00 {
					if unreadErr := r.UnreadByte(); unreadErr != nil {
						return "", unreadErr
					}
				}
			} else if !errors.Is(err, io.EOF) {
				return "", err
			}
			return buf.String(), nil
		default:
			buf.WriteByte(b)
		}
	}
}

// consumeChunkTerminator accepts CRLF, LF, CR and CR NUL after a data chunk.
func consumeChunkTerminator(r *bufio.Reader) error {
	b, err := r.ReadByte()
	if err != nil {
		return err
	}
	switch b {
	case '\n':
		return nil
	case '\r':
		next, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if next == '\n' || next == 0x00 {
			return nil
		}
		return fmt.Errorf("invalid chunk terminator")
	default:
		return fmt.Errorf("invalid chunk terminator")
	}
}
