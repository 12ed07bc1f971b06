// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package network

import (
	"encoding/json"
	"time"

	"github.com/staranto/wsinfra/internal/cacheutil"
	"github.com/staranto/wsinfra/internal/config"
	"github.com/staranto/wsinfra/internal/log"
)

var cacheDir = []string{"network"}

func cacheKey(account, region string) string {
	return account + "/" + region
}

// Save caches d under its account and region.
func Save(d Discovery) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return cacheutil.Write(cacheDir, cacheKey(d.Account, d.Region), b)
}

// Load returns the cached discovery for account and region. Entries older
// than maxAge are ignored; maxAge <= 0 accepts any age.
func Load(account, region string, maxAge time.Duration) (Discovery, bool) {
	e, ok := cacheutil.ReadFresh(cacheDir, cacheKey(account, region), maxAge)
	if !ok {
		return Discovery{}, false
	}
	var d Discovery
	if err := json.Unmarshal(e.Data, &d); err != nil {
		log.Debugf("network cache unreadable: key=%s err=%v", e.Key, err)
		return Discovery{}, false
	}
	return d, true
}

// Fill sets s.Network from a cached discovery when the settings carry no
// explicit placement. It reports whether it did.
func Fill(s *config.Settings) bool {
	if s.Network.Complete() {
		return false
	}
	d, ok := Load(s.Account, s.Region, 0)
	if !ok {
		return false
	}
	s.Network = d.Network()
	log.Debugf("network from cache: vpc=%s azs=%v", s.Network.VpcID, s.Network.AvailabilityZones)
	return true
}
