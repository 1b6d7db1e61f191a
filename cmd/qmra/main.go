/*
Copyright © 2017 the QMRA risk engine authors.
This file is part of the QMRA risk engine.

The QMRA risk engine is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

The QMRA risk engine is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with the QMRA risk engine.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command qmra is a command-line batch runner for the QMRA risk engine.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/qmra/qmracmd"
)

func main() {
	cfg := qmracmd.InitializeConfig()
	if err := cfg.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
