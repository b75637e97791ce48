//go:build headless

package main

import "errors"

func init() {
	compiledFeatures = append(compiledFeatures, "scope:text")
}

var errScopeWindowUnavailable = errors.New("scope window not available in headless build")

type ScopeWindow struct{}

func NewScopeWindow(controller *Controller, params *ParamChannel, settings *ScopeSettings) (*ScopeWindow, error) {
	return nil, errScopeWindowUnavailable
}

func (sw *ScopeWindow) ShowTrace(tr *Trace) {}

func (sw *ScopeWindow) Close() {}

func (sw *ScopeWindow) Run() error { return errScopeWindowUnavailable }
