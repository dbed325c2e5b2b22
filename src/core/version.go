package core

import "github.com/coreos/go-semver/semver"

// RawVersion is the unparsed raw version of lbs.
const RawVersion = "1.0.0"

// LbsVersion is the current version of lbs.
var LbsVersion = *semver.New(RawVersion)
