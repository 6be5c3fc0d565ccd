// This file is part of MinIO DriveMap
// Copyright (c) 2026 MinIO, Inc.
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package sg sends SCSI commands to SCSI generic devices.
package sg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const (
	inquiryOpcode    = 0x12
	inquiryEVPD      = 0x01
	unitSerialPage   = 0x80
	inquiryReplyLen  = 96
	serialReplyLen   = 252
	stdInquiryMinLen = 36
)

// ErrShortResponse denotes a SCSI response shorter than its fixed fields.
var ErrShortResponse = errors.New("short SCSI response")

// Inquiry is the identification of a SCSI logical unit.
type Inquiry struct {
	Vendor   string `json:"vendor"`
	Product  string `json:"product"`
	Revision string `json:"revision"`
	Serial   string `json:"serial,omitempty"`
}

func inquiryCDB(evpd bool, page byte, allocLen uint16) []byte {
	cdb := []byte{inquiryOpcode, 0, 0, 0, 0, 0}
	if evpd {
		cdb[1] = inquiryEVPD
		cdb[2] = page
	}
	binary.BigEndian.PutUint16(cdb[3:], allocLen)
	return cdb
}

func trimField(data []byte) string {
	return strings.TrimSpace(strings.TrimRight(string(data), "\x00"))
}

func parseStandardInquiry(data []byte) (*Inquiry, error) {
	if len(data) < stdInquiryMinLen {
		return nil, fmt.Errorf("%w; standard inquiry of %v bytes", ErrShortResponse, len(data))
	}
	return &Inquiry{
		Vendor:   trimField(data[8:16]),
		Product:  trimField(data[16:32]),
		Revision: trimField(data[32:36]),
	}, nil
}

func parseUnitSerial(data []byte) (string, error) {
	if len(data) < 4 {
		return "", fmt.Errorf("%w; unit serial page of %v bytes", ErrShortResponse, len(data))
	}
	if data[1] != unitSerialPage {
		return "", fmt.Errorf("unexpected VPD page %#02x", data[1])
	}
	length := int(binary.BigEndian.Uint16(data[2:4]))
	if 4+length > len(data) {
		length = len(data) - 4
	}
	return trimField(data[4 : 4+length]), nil
}

// Status is a failed SCSI command status.
type Status struct {
	SCSIStatus   uint8
	HostStatus   uint16
	DriverStatus uint16
}

func (s Status) Error() string {
	return fmt.Sprintf("SCSI status: %#02x, host status: %#02x, driver status: %#02x",
		s.SCSIStatus, s.HostStatus, s.DriverStatus)
}
