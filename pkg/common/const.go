package common

// UnboundedChannelSize is the buffer used for internal signalling channels
// (watchdog pings) that are never expected to back up under normal
// operation; it exists only so a slow consumer doesn't make the producer
// block.
const UnboundedChannelSize = 128
