package webrtc_ext

// Configuration of the WebRTC API for the SFU.
type Config struct {
	// Enable simulcast extension.
	EnableSimulcast bool `yaml:"simulcast"`
	// Pulibc IP address of the SFU.
	PublicIP string `yaml:"ip"`
	// Bounds of the ephemeral UDP port range used for ICE candidates.
	// Zero values leave the OS to pick an arbitrary port, same as Pion's default.
	PortMinUDP uint16 `yaml:"port_min_udp"`
	PortMaxUDP uint16 `yaml:"port_max_udp"`
}
