// beaconscan scans for beacon advertisements and verifies their rolling
// codes against a fleet registry.
//
// Usage:
//
//	sudo ./beaconscan -registry fleet.yaml
//	sudo ./beaconscan -registry fleet.yaml -duration 30s
//
// Requires Linux with BlueZ (or macOS with CoreBluetooth); needs root on
// Linux for BLE scanning privileges.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/selune/beaconfw/protocol"
	"github.com/selune/beaconfw/registry"
)

var adapter = bluetooth.DefaultAdapter

func main() {
	regPath := flag.String("registry", "registry.yaml", "fleet registry file")
	duration := flag.Duration("duration", 0, "scan duration (0 = until interrupted)")
	showAll := flag.Bool("all", false, "also print advertisements that fail verification")
	flag.Parse()

	reg, err := registry.Load(*regPath)
	if err != nil {
		log.Fatalf("registry load failed: %v", err)
	}
	if err := registry.Validate(reg); err != nil {
		log.Fatalf("registry validation failed: %v", err)
	}

	// Precompute seeds once; the scan callback is hot.
	type entry struct {
		name string
		seed uint32
	}
	entries := make([]entry, 0, len(reg.Devices))
	for i := range reg.Devices {
		seed, err := reg.Devices[i].Seed()
		if err != nil {
			log.Fatalf("device %q: %v", reg.Devices[i].Name, err)
		}
		entries = append(entries, entry{name: reg.Devices[i].Name, seed: seed})
	}

	if err := adapter.Enable(); err != nil {
		log.Fatalf("failed to enable BLE stack: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	if *duration > 0 {
		time.AfterFunc(*duration, func() { stop <- syscall.SIGTERM })
	}

	log.Printf("[scan] watching for company id %04X, %d registered devices\r\n",
		reg.ManufacturerID, len(entries))

	go func() {
		err := adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			for _, md := range result.ManufacturerData() {
				if md.CompanyID != reg.ManufacturerID {
					continue
				}
				p := protocol.DecodePayload(md.Data)
				if p == nil {
					continue
				}

				verified := ""
				for _, e := range entries {
					if protocol.GenerateCode(e.seed, p.Timestamp) == p.Code {
						verified = e.name
						break
					}
				}

				switch {
				case verified != "":
					log.Printf("[scan] %s rssi=%d code=%08X ts=%d VERIFIED device=%s\r\n",
						result.Address.String(), result.RSSI, p.Code, p.Timestamp, verified)
				case *showAll:
					log.Printf("[scan] %s rssi=%d code=%08X ts=%d unverified\r\n",
						result.Address.String(), result.RSSI, p.Code, p.Timestamp)
				}
			}
		})
		if err != nil {
			log.Fatalf("scan failed: %v", err)
		}
	}()

	<-stop
	_ = adapter.StopScan()
	log.Printf("[scan] stopped\r\n")
}
