// Package config loads ConvoMesh configuration from YAML files and maps it
// onto the storage and logging options. Everything has a working zero value;
// a config file is only needed to opt into the durable backend or tune
// logging.
package config
