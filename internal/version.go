package internal

// Version is the application version reported by --version and the GUI title.
const Version = "0.4.0"
