// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"go.e43.eu/ddsi"
	"go.e43.eu/ddsi/plist"
	"go.e43.eu/ddsi/qos"
)

type InputFlags struct {
	Encoding string   `default:"auto" enum:"auto,be,le"  help:"Byte order of the input. auto reads it from a leading encapsulation header."`
	Hex      bool     `help:"Input is hex text rather than binary."`
	Vendor   string   `default:"1.16" help:"Vendor id of the sending implementation, as major.minor."`
	Protocol string   `default:"2.1"  help:"RTPS protocol version of the message, as major.minor."`
	Files    []string `arg:""         help:"Files to read."                                             name:"file" type:"existingfile"`
}

func parsePair(s string) (a, b uint8, err error) {
	if _, err = fmt.Sscanf(s, "%d.%d", &a, &b); err != nil {
		return 0, 0, fmt.Errorf("parsing %q: %w", s, err)
	}
	return a, b, nil
}

func readInput(path string, asHex bool) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if asHex {
		return hex.DecodeString(strings.Join(strings.Fields(string(b)), ""))
	}
	return b, nil
}

// source reads path into a Source. With the auto encoding the data begins
// with a 4 byte encapsulation header: a big endian identifier and options.
func (f *InputFlags) source(path string) (ddsi.Source, error) {
	var src ddsi.Source

	buf, err := readInput(path, f.Hex)
	if err != nil {
		return src, err
	}
	switch f.Encoding {
	case "be":
		src.Encoding = ddsi.PL_CDR_BE
	case "le":
		src.Encoding = ddsi.PL_CDR_LE
	default:
		if len(buf) < 4 {
			return src, fmt.Errorf("%s: missing encapsulation header", path)
		}
		src.Encoding = ddsi.Encoding(uint16(buf[0])<<8 | uint16(buf[1]))
		buf = buf[4:]
	}
	src.Buf = buf

	if src.Vendor[0], src.Vendor[1], err = parsePair(f.Vendor); err != nil {
		return src, err
	}
	if src.ProtocolVersion.Major, src.ProtocolVersion.Minor, err = parsePair(f.Protocol); err != nil {
		return src, err
	}
	return src, nil
}

func writeYAML(w io.Writer, docs ...interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}
	return enc.Close()
}

func loadQoS(path string) (*qos.QoS, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	q := &qos.QoS{}
	if err := yaml.Unmarshal(b, q); err != nil {
		return nil, fmt.Errorf("parsing YAML file %s: %w", path, err)
	}
	return q, nil
}

type decodeCmd struct {
	InputFlags `embed:""`
}

func (c *decodeCmd) Run(e *env) error {
	for _, path := range c.Files {
		src, err := c.source(path)
		if err != nil {
			return err
		}
		p, n, err := e.codec.Decode(src, plist.MaskAll, qos.MaskAll)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if n != len(src.Buf) {
			fmt.Fprintf(os.Stderr, "%s: %d trailing bytes after sentinel\n", path, len(src.Buf)-n)
		}
		if err := writeYAML(os.Stdout, p); err != nil {
			return err
		}
	}
	return nil
}

type scanCmd struct {
	InputFlags `embed:""`
}

type scanResult struct {
	File       string `yaml:"file"`
	Dispose    bool   `yaml:"dispose"`
	Unregister bool   `yaml:"unregister"`
	ComplexQoS bool   `yaml:"complex_qos"`
	Swap       bool   `yaml:"swap"`
	Length     int    `yaml:"length"`
}

func (c *scanCmd) Run(e *env) error {
	for _, path := range c.Files {
		src, err := c.source(path)
		if err != nil {
			return err
		}
		info, n, err := e.codec.QuickScan(src)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := writeYAML(os.Stdout, scanResult{
			File:       path,
			Dispose:    info.StatusInfo&plist.STATUSINFO_DISPOSE != 0,
			Unregister: info.StatusInfo&plist.STATUSINFO_UNREGISTER != 0,
			ComplexQoS: info.ComplexQoS,
			Swap:       info.Swap,
			Length:     n,
		}); err != nil {
			return err
		}
	}
	return nil
}

type encodeCmd struct {
	Encoding string `default:"le"  enum:"be,le"            help:"Byte order to encode in."`
	Raw      bool   `help:"Write binary rather than a hex dump."`
	File     string `arg:""        help:"YAML QoS to encode." type:"existingfile"`
}

func (c *encodeCmd) Run(e *env) error {
	q, err := loadQoS(c.File)
	if err != nil {
		return err
	}
	if err := q.Validate(); err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}

	enc := ddsi.PL_CDR_LE
	if c.Encoding == "be" {
		enc = ddsi.PL_CDR_BE
	}
	b, err := e.codec.EncodeQoS(q, enc, qos.MaskAll)
	if err != nil {
		return err
	}

	if c.Raw {
		_, err = os.Stdout.Write(b)
	} else {
		_, err = io.WriteString(os.Stdout, hex.Dump(b))
	}
	return err
}

type defaultsCmd struct {
	Kind string `arg:"" enum:"reader,writer,topic,publisher,subscriber,participant" help:"Entity kind."`
}

func (c *defaultsCmd) Run(e *env) error {
	q, err := e.cfg.QoS(c.Kind)
	if err != nil {
		return err
	}
	return writeYAML(os.Stdout, q)
}

type diffCmd struct {
	A string `arg:"" help:"First YAML QoS."  type:"existingfile"`
	B string `arg:"" help:"Second YAML QoS." type:"existingfile"`
}

func (c *diffCmd) Run(e *env) error {
	a, err := loadQoS(c.A)
	if err != nil {
		return err
	}
	b, err := loadQoS(c.B)
	if err != nil {
		return err
	}
	for _, name := range qos.Delta(a, b, qos.MaskAll).Names() {
		fmt.Println(name)
	}
	return nil
}
