// SPDX-License-Identifier: MPL-2.0

package main

import cmd "webextc/cmd/webextc"

func main() {
	cmd.Execute()
}
