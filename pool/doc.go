// Package pool
// Author: momentics <momentics@gmail.com>
//
// Reusable message buffers for dispatcher workers. Each worker takes one
// buffer per message and hands it back when the reply has been written.
package pool
