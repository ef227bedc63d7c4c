// Package strap models tension elements running between markers, either
// straight or wrapped over cylinders and spheres.
//
// A Strap is recomputed once per distinct simulation time by Calculate.
// Its point forces are for unit tension; an actuator scales them by the
// commanded tension before handing them to the engine.
package strap
