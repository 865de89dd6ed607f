package internal

// Version is the current hanzirecall release
const Version = "0.4.0"
