package main

// the service version, bumped for each release
const version = "1.2.0"

// Version returns the version of the service
func Version() string {
	return version
}

//
// end of file
//
