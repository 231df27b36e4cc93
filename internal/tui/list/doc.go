// Package listview provides a scrolling list component for Bubble Tea.
//
// A Model renders only the rows that fit in its viewport and keeps the
// selected row visible. Items are replaced wholesale with SetItems whenever a
// new page arrives; selection is clamped to the new length. Keys:
//   - up/down and k/j move the selection
//   - pgup/pgdn move by a viewport
//   - home/end jump to the first or last row
package listview
