//go:build linux

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

package sg

import (
	"runtime"
	"unsafe"

	"github.com/dswarbrick/smart/ioctl"
	"golang.org/x/sys/unix"
	"k8s.io/klog/v2"
)

const (
	sgInfoOk     = 0x0 // no sense, host nor driver "noise" or error
	sgInfoOkMask = 0x1 // indicates whether some error or status field is non-zero

	sgIO           = 0x2285 // scsi generic ioctl command
	sgDxferFromDev = -3
	sgTimeoutMS    = 20000
	senseLen       = 32
)

// SCSI generic ioctl header, defined as sg_io_hdr_t in <scsi/sg.h>
type sgIoHdr struct {
	interfaceID    int32   // interfaceID: 'S' for SCSI generic (required)
	dxferDirection int32   // dxferDirection: data transfer direction
	cmdLen         uint8   // cmdLen: SCSI command length (<= 16 bytes)
	mxSbLen        uint8   // mxSbLen: max length to write to sbp
	_              uint16  // iovecCount: 0 implies no scatter gather
	dxferLen       uint32  // dxferLen: byte count of data transfer
	dxferp         uintptr // dxferp: points to data transfer memory or scatter gather list
	cmdp           uintptr // cmdp: points to command to perform
	sbp            uintptr // sbp: points to sense_buffer memory
	timeout        uint32  // timeout: MAX_UINT -> no timeout (unit: millisec)
	_              uint32  // flags: 0 -> default, see SG_FLAG...
	_              int32   // packID: unused internally (normally)
	_              uintptr // usrPtr: unused internally
	status         uint8   // status: SCSI status
	_              uint8   // maskedStatus: shifted, masked scsi status
	_              uint8   // msgStatus: messaging level data (optional)
	_              uint8   // sbLenWR: byte count actually written to sbp
	hostStatus     uint16  // hostStatus: errors from host adapter
	driverStatus   uint16  // driverStatus: errors from software driver
	resid          int32   // resid: dxfer_len - actual_transferred
	_              uint32  // duration: time taken by cmd (unit: millisec)
	info           uint32  // info: auxiliary information
}

type device struct {
	path string
	fd   int
}

func openDevice(path string) (*device, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, err
	}
	return &device{path: path, fd: fd}, nil
}

func (d *device) close() error {
	return unix.Close(d.fd)
}

// sendCDB issues cdb reading into resp and returns bytes transferred.
func (d *device) sendCDB(cdb, resp []byte) (int, error) {
	sense := make([]byte, senseLen)
	hdr := sgIoHdr{
		interfaceID:    'S',
		dxferDirection: sgDxferFromDev,
		timeout:        sgTimeoutMS,
		cmdLen:         uint8(len(cdb)),
		mxSbLen:        uint8(len(sense)),
		dxferLen:       uint32(len(resp)),
		dxferp:         uintptr(unsafe.Pointer(&resp[0])),
		cmdp:           uintptr(unsafe.Pointer(&cdb[0])),
		sbp:            uintptr(unsafe.Pointer(&sense[0])),
	}

	err := ioctl.Ioctl(uintptr(d.fd), sgIO, uintptr(unsafe.Pointer(&hdr)))
	runtime.KeepAlive(cdb)
	runtime.KeepAlive(resp)
	runtime.KeepAlive(sense)
	if err != nil {
		return 0, err
	}

	// See http://www.t10.org/lists/2status.htm for SCSI status codes
	if hdr.info&sgInfoOkMask != sgInfoOk {
		return 0, Status{
			SCSIStatus:   hdr.status,
			HostStatus:   hdr.hostStatus,
			DriverStatus: hdr.driverStatus,
		}
	}

	return len(resp) - int(hdr.resid), nil
}

func (d *device) inquiry(evpd bool, page byte, length int) ([]byte, error) {
	resp := make([]byte, length)
	n, err := d.sendCDB(inquiryCDB(evpd, page, uint16(length)), resp)
	if err != nil {
		return nil, err
	}
	if n < 0 || n > length {
		n = length
	}
	return resp[:n], nil
}

// Inquire returns vendor, product, revision and unit serial number of SCSI
// generic device at path. A device without unit serial number page is not
// an error.
func Inquire(path string) (*Inquiry, error) {
	d, err := openDevice(path)
	if err != nil {
		return nil, err
	}
	defer d.close()

	data, err := d.inquiry(false, 0, inquiryReplyLen)
	if err != nil {
		return nil, err
	}
	inquiry, err := parseStandardInquiry(data)
	if err != nil {
		return nil, err
	}

	if data, err = d.inquiry(true, unitSerialPage, serialReplyLen); err != nil {
		klog.V(5).InfoS("unable to read unit serial number", "device", path, "err", err)
		return inquiry, nil
	}
	if inquiry.Serial, err = parseUnitSerial(data); err != nil {
		klog.V(5).InfoS("invalid unit serial number page", "device", path, "err", err)
	}

	return inquiry, nil
}
