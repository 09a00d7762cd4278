/*Package vtsview implements the data and rendering core of a viewer for
time series of VTK structured-grid (.vts) files, as written by
microstructure simulation codes.

The core is split into leaf packages:

    vtsio    - reads a single .vts file into an in-memory GridFrame
    series   - discovers and orders same-prefix file series in a folder
    playback - double-buffered background prefetch and playback control
    render   - persistent incremental visualization pipeline
    probe    - line sampling of the active grid into a table
    config   - gcfg configuration files for the main driver

main/main.go ties these together into a headless command line driver.
GUI front ends are expected to call the same entry points from their
event loops: all rendering and playback-advancement calls must come
from a single thread, while prefetch runs on its own worker.*/
package vtsview

const Version = "0.3.1"
