// Copyright 2026 The taintcheck Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

// builtinModules is the catalog shipped with the checker. It cannot
// name every taint source; it covers the standard library entry points
// through which untrusted data most commonly arrives.
var builtinModules = []Module{
	{
		Name:        "environment",
		Description: "Environment variables are controlled by whoever started the process.",
		Sources: []Source{
			{
				Functions:   []string{"os.Getenv", "os.LookupEnv", "os.Environ", "os.ExpandEnv"},
				Description: "Reads an environment variable.",
			},
			{
				Functions:   []string{"syscall.Getenv"},
				Description: "Reads an environment variable through the raw syscall interface.",
			},
		},
	},
	{
		Name:        "process arguments",
		Description: "Command line arguments and flags are supplied by the invoking user.",
		Sources: []Source{
			{
				Functions:   []string{"flag.Arg", "flag.Args", "flag.(FlagSet).Arg", "flag.(FlagSet).Args"},
				Description: "Reads a positional command line argument.",
			},
			{
				Functions:   []string{"flag.String", "flag.(FlagSet).String"},
				Description: "Declares a string flag populated from the command line.",
			},
		},
	},
	{
		Name:        "standard input",
		Description: "Data read from standard input is typed or piped in by the user.",
		Sources: []Source{
			{
				Functions:   []string{"fmt.Scan", "fmt.Scanln", "fmt.Scanf"},
				Description: "Scans a value from standard input.",
			},
			{
				Functions:   []string{"bufio.(Scanner).Text", "bufio.(Scanner).Bytes"},
				Description: "Returns the current token of a line scanner.",
			},
			{
				Functions:   []string{"bufio.(Reader).ReadString", "bufio.(Reader).ReadBytes", "bufio.(Reader).ReadLine"},
				Description: "Reads buffered input up to a delimiter.",
			},
		},
	},
	{
		Name:        "file io",
		Description: "File contents can be written by other processes and users.",
		Sources: []Source{
			{
				Functions:   []string{"os.ReadFile", "io.ReadAll"},
				Description: "Reads a whole file or stream into memory.",
			},
			{
				Functions:   []string{"os.(File).Read", "os.(File).ReadAt"},
				Description: "Reads bytes from an open file.",
			},
			{
				Functions:   []string{"fmt.Fscan", "fmt.Fscanln", "fmt.Fscanf"},
				Description: "Scans values from an arbitrary reader.",
			},
		},
	},
	{
		Name:        "network",
		Description: "Anything received over the network is attacker controlled.",
		Sources: []Source{
			{
				Functions:   []string{"net.(Conn).Read", "net.(TCPConn).Read", "net.(UDPConn).Read", "net.(UDPConn).ReadFrom"},
				Description: "Reads raw bytes from a network connection.",
			},
			{
				Functions: []string{
					"net/http.(Request).FormValue",
					"net/http.(Request).PostFormValue",
					"net/http.(Request).Cookie",
					"net/http.(Header).Get",
				},
				Description: "Reads a value from an incoming HTTP request.",
			},
			{
				Functions:   []string{"net/url.(URL).Query", "net/url.(Values).Get"},
				Description: "Reads a query parameter from a URL.",
			},
		},
	},
}

// Builtin returns the catalog compiled into the checker.
func Builtin() *Catalog {
	return New(builtinModules)
}
