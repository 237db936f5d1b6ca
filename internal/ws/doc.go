// Package ws streams live per-product online counts to operator dashboards
// over WebSocket. The hub broadcasts the current presence summary to every
// connected client on a fixed interval and immediately on connect.
package ws
