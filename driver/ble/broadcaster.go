// Package ble drives the beacon's advertisement through the platform
// Bluetooth stack (SoftDevice on nRF52 targets, BlueZ on a Linux host).
package ble

import (
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/selune/beaconfw/protocol"
)

// Broadcaster implements the core's radio capability as a non-connectable
// BLE advertisement carrying the payload as manufacturer data.
type Broadcaster struct {
	adapter   *bluetooth.Adapter
	adv       *bluetooth.Advertisement
	companyID uint16
	enabled   bool
}

// New returns a Broadcaster advertising under the given company ID.
func New(companyID uint16) *Broadcaster {
	return &Broadcaster{
		adapter:   bluetooth.DefaultAdapter,
		companyID: companyID,
	}
}

func (b *Broadcaster) Advertise(name string, payload []byte) error {
	if !b.enabled {
		if err := b.adapter.Enable(); err != nil {
			return err
		}
		b.enabled = true
	}

	b.adv = b.adapter.DefaultAdvertisement()
	if err := b.adv.Configure(bluetooth.AdvertisementOptions{
		AdvertisementType: bluetooth.AdvertisingTypeNonConnInd,
		LocalName:         name,
		Interval:          bluetooth.NewDuration(protocol.AdvertiseInterval * time.Millisecond),
		ManufacturerData: []bluetooth.ManufacturerDataElement{
			{CompanyID: b.companyID, Data: payload},
		},
	}); err != nil {
		return err
	}

	return b.adv.Start()
}

func (b *Broadcaster) Stop() error {
	if b.adv == nil {
		return nil
	}
	return b.adv.Stop()
}
