package shell

// Host is the fixed machine name in the prompt.
const Host = "portfolio"

// Welcome is the first scrollback line of every session.
const Welcome = "Welcome to Parth OS Terminal. Type 'parth --help' to see available commands."

// LoadingText is shown while a web query is pending.
const LoadingText = "Searching the web..."

// HelpMessage is printed by "parth --help".
const HelpMessage = `
Parth OS Command List:

  parth --help                Show this help message.
  parth getfromweb "<prompt>"   Ask the Gemini AI with Google Search.
  ls [path]                   List directory contents.
  cd <directory>              Change the current directory.
  pwd                         Print the current directory.
  cat <file>                  Display file contents.
  mkdir <directory>             Create a new directory.
  rm [-r] <path>              Remove a file or directory.
  find [pattern]              Find files below the current directory.
  nano <file>                 Open a simple text editor.
  whoami                      Display the current user.
  date                        Display the current date and time.
  clear                       Clear the terminal screen.
  echo [text]                 Display a line of text.

Press [Up Arrow] or [Down Arrow] to navigate command history.
`
