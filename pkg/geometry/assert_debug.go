//go:build dpdebug

package geometry

const assertionsEnabled = true
