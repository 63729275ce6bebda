/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package daemon

import (
	"fmt"
	"net"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// MaxDSCP is the largest DSCP value
const MaxDSCP = 63

// enableDSCP marks packets sent through conn with dscp
func enableDSCP(conn net.Conn, ip net.IP, dscp int) error {
	if ip.To4() != nil {
		return ipv4.NewConn(conn).SetTOS(dscp << 2)
	}
	return ipv6.NewConn(conn).SetTrafficClass(dscp << 2)
}

// dscpDialer returns UDP dialer for NTP queries marked with dscp
func dscpDialer(dscp int) func(localAddress, remoteAddress string) (net.Conn, error) {
	return func(localAddress, remoteAddress string) (net.Conn, error) {
		raddr, err := net.ResolveUDPAddr("udp", remoteAddress)
		if err != nil {
			return nil, err
		}
		var laddr *net.UDPAddr
		if localAddress != "" {
			laddr = &net.UDPAddr{IP: net.ParseIP(localAddress)}
		}
		conn, err := net.DialUDP("udp", laddr, raddr)
		if err != nil {
			return nil, err
		}
		if err := enableDSCP(conn, raddr.IP, dscp); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting DSCP %d: %w", dscp, err)
		}
		return conn, nil
	}
}
