// Package diag collects lightweight network diagnostics for the local host.
// Everything here is a thin wrapper over OS data sources (interface counters,
// the process table, the ARP cache, the system ping binary); collection
// errors for individual entries are skipped rather than failing the whole
// snapshot.
package diag

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	gopsnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// InterfaceStats holds cumulative counters for one network interface plus
// per-second rates derived from two samples.
type InterfaceStats struct {
	BytesSent     uint64  `json:"bytes_sent"`
	BytesRecv     uint64  `json:"bytes_recv"`
	PacketsSent   uint64  `json:"packets_sent"`
	PacketsRecv   uint64  `json:"packets_recv"`
	SendSpeedBps  float64 `json:"send_speed_bps"`
	RecvSpeedBps  float64 `json:"recv_speed_bps"`
	SendSpeedMbps float64 `json:"send_speed_mbps"`
	RecvSpeedMbps float64 `json:"recv_speed_mbps"`
	Errin         uint64  `json:"errin"`
	Errout        uint64  `json:"errout"`
	Dropin        uint64  `json:"dropin"`
	Dropout       uint64  `json:"dropout"`
}

// SampleBandwidth takes two per-interface counter snapshots the given
// interval apart and returns totals plus derived transfer rates.
func SampleBandwidth(interval time.Duration) (map[string]InterfaceStats, error) {
	start, err := gopsnet.IOCounters(true)
	if err != nil {
		return nil, fmt.Errorf("failed to read interface counters: %w", err)
	}
	time.Sleep(interval)
	end, err := gopsnet.IOCounters(true)
	if err != nil {
		return nil, fmt.Errorf("failed to read interface counters: %w", err)
	}

	startByName := make(map[string]gopsnet.IOCountersStat, len(start))
	for _, s := range start {
		startByName[s.Name] = s
	}

	seconds := interval.Seconds()
	if seconds <= 0 {
		seconds = 1
	}

	usage := make(map[string]InterfaceStats, len(end))
	for _, e := range end {
		s, ok := startByName[e.Name]
		if !ok {
			continue
		}
		sentBps := float64(e.BytesSent-s.BytesSent) * 8 / seconds
		recvBps := float64(e.BytesRecv-s.BytesRecv) * 8 / seconds
		usage[e.Name] = InterfaceStats{
			BytesSent:     e.BytesSent,
			BytesRecv:     e.BytesRecv,
			PacketsSent:   e.PacketsSent,
			PacketsRecv:   e.PacketsRecv,
			SendSpeedBps:  sentBps,
			RecvSpeedBps:  recvBps,
			SendSpeedMbps: sentBps / 1_000_000,
			RecvSpeedMbps: recvBps / 1_000_000,
			Errin:         e.Errin,
			Errout:        e.Errout,
			Dropin:        e.Dropin,
			Dropout:       e.Dropout,
		}
	}
	return usage, nil
}

// ProcessConn describes one network connection joined with its owning
// process.
type ProcessConn struct {
	Pid           int32  `json:"pid"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	LocalAddress  string `json:"local_address"`
	RemoteAddress string `json:"remote_address"`
}

// NetworkProcesses lists inet connections together with the owning process
// name. Connections whose process vanished between the two lookups are
// skipped.
func NetworkProcesses() ([]ProcessConn, error) {
	conns, err := gopsnet.Connections("inet")
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	result := make([]ProcessConn, 0, len(conns))
	for _, conn := range conns {
		if conn.Pid <= 0 {
			continue
		}
		proc, err := process.NewProcess(conn.Pid)
		if err != nil {
			continue
		}
		name, err := proc.Name()
		if err != nil {
			continue
		}
		remote := "N/A"
		if conn.Raddr.IP != "" {
			remote = fmt.Sprintf("%s:%d", conn.Raddr.IP, conn.Raddr.Port)
		}
		result = append(result, ProcessConn{
			Pid:           conn.Pid,
			Name:          name,
			Status:        conn.Status,
			LocalAddress:  fmt.Sprintf("%s:%d", conn.Laddr.IP, conn.Laddr.Port),
			RemoteAddress: remote,
		})
	}
	return result, nil
}

// defaultPingHosts are the hosts sampled by PingLatency when none are given.
var defaultPingHosts = []string{"google.com", "facebook.com", "amazon.com"}

// PingLatency pings each host with the system ping binary and returns the
// average round-trip time in milliseconds as a string, or an error message
// per host. A failing host never fails the whole map.
func PingLatency(ctx context.Context, hosts []string) map[string]string {
	if len(hosts) == 0 {
		hosts = defaultPingHosts
	}
	results := make(map[string]string, len(hosts))
	for _, host := range hosts {
		results[host] = pingHost(ctx, host)
	}
	return results
}

func pingHost(ctx context.Context, host string) string {
	out, err := exec.CommandContext(ctx, "ping", "-c", "4", host).CombinedOutput()
	if err != nil {
		return fmt.Sprintf("Error: %s", strings.TrimSpace(string(out)))
	}
	if avg, ok := parsePingAverage(string(out)); ok {
		return avg
	}
	return "Error: could not parse ping output"
}

// parsePingAverage extracts the average RTT from iputils-style ping output,
// e.g. "rtt min/avg/max/mdev = 12.3/15.6/20.1/2.2 ms".
func parsePingAverage(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "avg") {
			continue
		}
		_, stats, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		parts := strings.Split(strings.TrimSpace(stats), "/")
		if len(parts) < 2 {
			continue
		}
		return strings.TrimSpace(parts[1]), true
	}
	return "", false
}

// Device is one neighbour from the ARP cache.
type Device struct {
	IP     string `json:"ip"`
	MAC    string `json:"mac"`
	Device string `json:"device"`
}

const arpCachePath = "/proc/net/arp"

// ScanDevices lists LAN neighbours known to the kernel's ARP cache.
func ScanDevices() ([]Device, error) {
	f, err := os.Open(arpCachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read ARP cache: %w", err)
	}
	defer f.Close()
	return parseARPCache(f)
}

// parseARPCache reads /proc/net/arp formatted data. Columns: IP address,
// HW type, Flags, HW address, Mask, Device. Incomplete entries (flags 0x0)
// are skipped.
func parseARPCache(r io.Reader) ([]Device, error) {
	scanner := bufio.NewScanner(r)
	devices := []Device{}
	first := true
	for scanner.Scan() {
		if first {
			first = false // header row
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 || fields[2] == "0x0" {
			continue
		}
		devices = append(devices, Device{
			IP:     fields[0],
			MAC:    fields[3],
			Device: fields[5],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return devices, nil
}
