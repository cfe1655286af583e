package internal

// Version is the current release of mdtranslate
const Version = "0.4.0"
